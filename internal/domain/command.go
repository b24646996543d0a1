package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommandKind tags the closed set of command variants.
type CommandKind string

const (
	KindCreateBox       CommandKind = "create_box"
	KindCreateCylinder  CommandKind = "create_cylinder"
	KindCreatePart      CommandKind = "create_part"
	KindAddExtrusion    CommandKind = "add_extrusion"
	KindAddCut          CommandKind = "add_cut"
	KindAddFillet       CommandKind = "add_fillet"
	KindAddChamfer      CommandKind = "add_chamfer"
	KindAddHole         CommandKind = "add_hole"
	KindAddPattern      CommandKind = "add_pattern"
	KindModifyDimension CommandKind = "modify_dimension"
	KindSavePart        CommandKind = "save_part"
	KindExportPart      CommandKind = "export_part"
	KindClosePart       CommandKind = "close_part"
	KindUndo            CommandKind = "undo"
	KindRedo            CommandKind = "redo"
	KindHelp            CommandKind = "help"
	KindShowInfo        CommandKind = "show_info"
)

// DimensionType names which measurement of a feature a command targets.
type DimensionType string

const (
	DimWidth     DimensionType = "width"
	DimLength    DimensionType = "length"
	DimHeight    DimensionType = "height"
	DimThickness DimensionType = "thickness"
	DimRadius    DimensionType = "radius"
	DimDiameter  DimensionType = "diameter"
	DimDepth     DimensionType = "depth"
)

// Canonical folds spoken aliases onto the stored dimension type. Users say
// "thickness" for what features store as height; every layer that matches
// dimension types compares canonical forms.
func (t DimensionType) Canonical() DimensionType {
	if t == DimThickness {
		return DimHeight
	}
	return t
}

// ModificationType describes how ModifyDimension changes its target.
type ModificationType string

const (
	ModSetTo      ModificationType = "set_to"
	ModIncreaseBy ModificationType = "increase_by"
	ModDecreaseBy ModificationType = "decrease_by"
	ModMultiplyBy ModificationType = "multiply_by"
	ModDivideBy   ModificationType = "divide_by"
)

// Command is a typed, immutable description of one model-host operation.
// Identity is assigned at construction and never reused.
type Command interface {
	ID() uuid.UUID
	Kind() CommandKind
	Describe() string
	Undoable() bool
	CreatedAt() time.Time
}

// DimensionCarrier is implemented by commands that carry measurable
// parameters, so the conversation context can track them after execution.
type DimensionCarrier interface {
	Dimensions() []TypedDimension
}

// TypedDimension pairs a dimension with the measurement it describes.
type TypedDimension struct {
	Type      DimensionType
	Dimension Dimension
}

// Meta holds identity and timestamp shared by every command variant.
type Meta struct {
	CommandID uuid.UUID
	Created   time.Time
}

// NewMeta assigns a fresh identity.
func NewMeta() Meta {
	return Meta{CommandID: uuid.New(), Created: time.Now()}
}

func (m Meta) ID() uuid.UUID        { return m.CommandID }
func (m Meta) CreatedAt() time.Time { return m.Created }

// CreateBox creates a rectangular solid. Plates parse to the same shape.
type CreateBox struct {
	Meta
	Name   string
	Width  Dimension
	Length Dimension
	Height Dimension
}

func (c CreateBox) Kind() CommandKind { return KindCreateBox }
func (c CreateBox) Undoable() bool    { return true }
func (c CreateBox) Describe() string {
	return fmt.Sprintf("Create box %s x %s x %s", c.Width, c.Length, c.Height)
}
func (c CreateBox) Dimensions() []TypedDimension {
	return []TypedDimension{
		{Type: DimWidth, Dimension: c.Width},
		{Type: DimLength, Dimension: c.Length},
		{Type: DimHeight, Dimension: c.Height},
	}
}

// CreateCylinder creates a cylindrical solid.
type CreateCylinder struct {
	Meta
	Name     string
	Diameter Dimension
	Height   Dimension
}

func (c CreateCylinder) Kind() CommandKind { return KindCreateCylinder }
func (c CreateCylinder) Undoable() bool    { return true }
func (c CreateCylinder) Describe() string {
	return fmt.Sprintf("Create cylinder %s diameter x %s tall", c.Diameter, c.Height)
}
func (c CreateCylinder) Dimensions() []TypedDimension {
	return []TypedDimension{
		{Type: DimDiameter, Dimension: c.Diameter},
		{Type: DimHeight, Dimension: c.Height},
	}
}

// CreatePart opens a fresh empty document.
type CreatePart struct {
	Meta
	Name string
}

func (c CreatePart) Kind() CommandKind { return KindCreatePart }
func (c CreatePart) Undoable() bool    { return false }
func (c CreatePart) Describe() string  { return fmt.Sprintf("Create new part %q", c.Name) }

// AddExtrusion extrudes the active sketch.
type AddExtrusion struct {
	Meta
	Depth Dimension
}

func (c AddExtrusion) Kind() CommandKind { return KindAddExtrusion }
func (c AddExtrusion) Undoable() bool    { return true }
func (c AddExtrusion) Describe() string  { return fmt.Sprintf("Extrude %s", c.Depth) }
func (c AddExtrusion) Dimensions() []TypedDimension {
	return []TypedDimension{{Type: DimDepth, Dimension: c.Depth}}
}

// AddCut removes material, either to a depth or through everything.
type AddCut struct {
	Meta
	Depth      Dimension
	ThroughAll bool
}

func (c AddCut) Kind() CommandKind { return KindAddCut }
func (c AddCut) Undoable() bool    { return true }
func (c AddCut) Describe() string {
	if c.ThroughAll {
		return "Cut through all"
	}
	return fmt.Sprintf("Cut %s deep", c.Depth)
}
func (c AddCut) Dimensions() []TypedDimension {
	if c.ThroughAll {
		return nil
	}
	return []TypedDimension{{Type: DimDepth, Dimension: c.Depth}}
}

// AddFillet rounds one or all edges.
type AddFillet struct {
	Meta
	Radius   Dimension
	AllEdges bool
}

func (c AddFillet) Kind() CommandKind { return KindAddFillet }
func (c AddFillet) Undoable() bool    { return true }
func (c AddFillet) Describe() string {
	scope := "selected edges"
	if c.AllEdges {
		scope = "all edges"
	}
	return fmt.Sprintf("Fillet %s, radius %s", scope, c.Radius)
}
func (c AddFillet) Dimensions() []TypedDimension {
	return []TypedDimension{{Type: DimRadius, Dimension: c.Radius}}
}

// AddChamfer bevels one or all edges.
type AddChamfer struct {
	Meta
	Distance Dimension
	AllEdges bool
}

func (c AddChamfer) Kind() CommandKind { return KindAddChamfer }
func (c AddChamfer) Undoable() bool    { return true }
func (c AddChamfer) Describe() string {
	scope := "selected edges"
	if c.AllEdges {
		scope = "all edges"
	}
	return fmt.Sprintf("Chamfer %s, distance %s", scope, c.Distance)
}
func (c AddChamfer) Dimensions() []TypedDimension {
	return []TypedDimension{{Type: DimRadius, Dimension: c.Distance}}
}

// AddHole drills a hole. ThroughAll defaults true when no depth was given.
type AddHole struct {
	Meta
	Diameter   Dimension
	Depth      Dimension
	ThroughAll bool
	Centered   bool
}

func (c AddHole) Kind() CommandKind { return KindAddHole }
func (c AddHole) Undoable() bool    { return true }
func (c AddHole) Describe() string {
	if c.ThroughAll {
		return fmt.Sprintf("Drill %s hole through all", c.Diameter)
	}
	return fmt.Sprintf("Drill %s hole, %s deep", c.Diameter, c.Depth)
}
func (c AddHole) Dimensions() []TypedDimension {
	dims := []TypedDimension{{Type: DimDiameter, Dimension: c.Diameter}}
	if !c.ThroughAll {
		dims = append(dims, TypedDimension{Type: DimDepth, Dimension: c.Depth})
	}
	return dims
}

// AddPattern repeats the last feature along a direction.
type AddPattern struct {
	Meta
	Count   int
	Spacing Dimension
}

func (c AddPattern) Kind() CommandKind { return KindAddPattern }
func (c AddPattern) Undoable() bool    { return true }
func (c AddPattern) Describe() string {
	return fmt.Sprintf("Pattern last feature %d times, %s apart", c.Count, c.Spacing)
}
func (c AddPattern) Dimensions() []TypedDimension {
	return []TypedDimension{{Type: DimLength, Dimension: c.Spacing}}
}

// ModifyDimension adjusts an existing measurement.
type ModifyDimension struct {
	Meta
	Target       DimensionType
	Modification ModificationType
	// Amount holds the operand for set/increase/decrease modifications.
	Amount Dimension
	// Factor holds the operand for multiply/divide modifications.
	Factor float64
}

func (c ModifyDimension) Kind() CommandKind { return KindModifyDimension }
func (c ModifyDimension) Undoable() bool    { return true }
func (c ModifyDimension) Describe() string {
	switch c.Modification {
	case ModMultiplyBy:
		return fmt.Sprintf("Multiply %s by %g", c.Target, c.Factor)
	case ModDivideBy:
		return fmt.Sprintf("Divide %s by %g", c.Target, c.Factor)
	case ModIncreaseBy:
		return fmt.Sprintf("Increase %s by %s", c.Target, c.Amount)
	case ModDecreaseBy:
		return fmt.Sprintf("Decrease %s by %s", c.Target, c.Amount)
	default:
		return fmt.Sprintf("Set %s to %s", c.Target, c.Amount)
	}
}
func (c ModifyDimension) Dimensions() []TypedDimension {
	switch c.Modification {
	case ModMultiplyBy, ModDivideBy:
		return nil
	default:
		return []TypedDimension{{Type: c.Target, Dimension: c.Amount}}
	}
}

// SavePart writes the active document.
type SavePart struct {
	Meta
	Path string
}

func (c SavePart) Kind() CommandKind { return KindSavePart }
func (c SavePart) Undoable() bool    { return false }
func (c SavePart) Describe() string {
	if c.Path == "" {
		return "Save active part"
	}
	return fmt.Sprintf("Save active part to %s", c.Path)
}

// ExportPart writes the active document in an exchange format.
type ExportPart struct {
	Meta
	Path   string
	Format string
}

func (c ExportPart) Kind() CommandKind { return KindExportPart }
func (c ExportPart) Undoable() bool    { return false }
func (c ExportPart) Describe() string {
	return fmt.Sprintf("Export active part as %s", c.Format)
}

// ClosePart closes the active document.
type ClosePart struct {
	Meta
}

func (c ClosePart) Kind() CommandKind { return KindClosePart }
func (c ClosePart) Undoable() bool    { return false }
func (c ClosePart) Describe() string  { return "Close active part" }

// UndoCommand reverts the most recent undoable command.
type UndoCommand struct {
	Meta
}

func (c UndoCommand) Kind() CommandKind { return KindUndo }
func (c UndoCommand) Undoable() bool    { return false }
func (c UndoCommand) Describe() string  { return "Undo last command" }

// RedoCommand reapplies the most recently undone command.
type RedoCommand struct {
	Meta
}

func (c RedoCommand) Kind() CommandKind { return KindRedo }
func (c RedoCommand) Undoable() bool    { return false }
func (c RedoCommand) Describe() string  { return "Redo last undone command" }

// HelpCommand lists example phrasings.
type HelpCommand struct {
	Meta
}

func (c HelpCommand) Kind() CommandKind { return KindHelp }
func (c HelpCommand) Undoable() bool    { return false }
func (c HelpCommand) Describe() string  { return "Show usage examples" }

// ShowInfo reports the active document's state.
type ShowInfo struct {
	Meta
}

func (c ShowInfo) Kind() CommandKind { return KindShowInfo }
func (c ShowInfo) Undoable() bool    { return false }
func (c ShowInfo) Describe() string  { return "Show part information" }
