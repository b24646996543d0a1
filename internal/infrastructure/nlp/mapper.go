package nlp

import (
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// CommandFromResponse maps a structured response onto a typed command. It
// returns absent when the intent is unknown or a required parameter is
// missing, signalling the caller to fall back or ask for clarification.
func CommandFromResponse(resp ports.InterpretResponse, defaultUnit domain.Unit) (domain.Command, bool) {
	params := resp.Parameters

	switch strings.ToUpper(strings.TrimSpace(resp.Intent)) {
	case IntentCreateBox, IntentCreatePlate:
		width, okW := paramDimension(params, defaultUnit, "width", "w")
		length, okL := paramDimension(params, defaultUnit, "length", "l")
		height, okH := paramDimension(params, defaultUnit, "height", "thickness", "h", "t")
		if !okW || !okL || !okH {
			return nil, false
		}
		name := paramText(params, "name")
		if name == "" {
			name = "Box1"
			if strings.EqualFold(resp.Intent, IntentCreatePlate) {
				name = "Plate1"
			}
		}
		return domain.CreateBox{Meta: domain.NewMeta(), Name: name, Width: width, Length: length, Height: height}, true

	case IntentCreateCylinder:
		dia, okD := paramDimension(params, defaultUnit, "diameter", "dia")
		if !okD {
			if radius, okR := paramDimension(params, defaultUnit, "radius", "r"); okR {
				dia, okD = radius.Scale(2), true
			}
		}
		height, okH := paramDimension(params, defaultUnit, "height", "length", "h")
		if !okD || !okH {
			return nil, false
		}
		name := paramText(params, "name")
		if name == "" {
			name = "Cylinder1"
		}
		return domain.CreateCylinder{Meta: domain.NewMeta(), Name: name, Diameter: dia, Height: height}, true

	case IntentCreatePart:
		name := paramText(params, "name")
		if name == "" {
			name = "Part1"
		}
		return domain.CreatePart{Meta: domain.NewMeta(), Name: name}, true

	case IntentAddExtrusion:
		depth, ok := paramDimension(params, defaultUnit, "depth", "distance", "height")
		if !ok {
			return nil, false
		}
		return domain.AddExtrusion{Meta: domain.NewMeta(), Depth: depth}, true

	case IntentAddCut:
		depth, haveDepth := paramDimension(params, defaultUnit, "depth", "distance")
		cut := domain.AddCut{Meta: domain.NewMeta(), ThroughAll: !haveDepth || paramBool(params, "through_all", "throughAll")}
		if haveDepth {
			cut.Depth = depth
		}
		return cut, true

	case IntentAddFillet:
		radius, ok := paramDimension(params, defaultUnit, "radius", "r")
		if !ok {
			return nil, false
		}
		return domain.AddFillet{
			Meta:     domain.NewMeta(),
			Radius:   radius,
			AllEdges: paramBool(params, "all_edges", "allEdges"),
		}, true

	case IntentAddChamfer:
		distance, ok := paramDimension(params, defaultUnit, "distance", "d")
		if !ok {
			return nil, false
		}
		return domain.AddChamfer{
			Meta:     domain.NewMeta(),
			Distance: distance,
			AllEdges: paramBool(params, "all_edges", "allEdges"),
		}, true

	case IntentAddHole:
		dia, ok := paramDimension(params, defaultUnit, "diameter", "dia")
		if !ok {
			return nil, false
		}
		depth, haveDepth := paramDimension(params, defaultUnit, "depth")
		hole := domain.AddHole{
			Meta:     domain.NewMeta(),
			Diameter: dia,
			Centered: paramBool(params, "centered", "center"),
		}
		if haveDepth {
			hole.Depth = depth
			hole.ThroughAll = paramBool(params, "through_all", "throughAll")
		} else {
			hole.ThroughAll = true
		}
		return hole, true

	case IntentAddPattern:
		count := int(paramNumber(params, "count", "copies"))
		if count < 2 {
			return nil, false
		}
		spacing, ok := paramDimension(params, defaultUnit, "spacing", "distance")
		if !ok {
			return nil, false
		}
		return domain.AddPattern{Meta: domain.NewMeta(), Count: count, Spacing: spacing}, true

	case IntentModifyDimension:
		target, okT := dimensionTypeOf(paramText(params, "dimension", "target"))
		if !okT {
			return nil, false
		}
		cmd := domain.ModifyDimension{Meta: domain.NewMeta(), Target: target}
		switch strings.ToLower(paramText(params, "modification", "operation")) {
		case "multiply_by", "multiply", "double":
			cmd.Modification = domain.ModMultiplyBy
			cmd.Factor = paramNumberDefault(params, 2, "factor", "value")
		case "divide_by", "divide", "halve":
			cmd.Modification = domain.ModDivideBy
			cmd.Factor = paramNumberDefault(params, 2, "factor", "value")
		case "increase_by", "increase":
			cmd.Modification = domain.ModIncreaseBy
		case "decrease_by", "decrease":
			cmd.Modification = domain.ModDecreaseBy
		default:
			cmd.Modification = domain.ModSetTo
		}
		if cmd.Modification != domain.ModMultiplyBy && cmd.Modification != domain.ModDivideBy {
			amount, ok := paramDimension(params, defaultUnit, "value", "amount")
			if !ok {
				return nil, false
			}
			cmd.Amount = amount
		}
		return cmd, true

	case IntentSavePart:
		return domain.SavePart{Meta: domain.NewMeta(), Path: paramText(params, "path", "filename")}, true

	case IntentExportPart:
		format := paramText(params, "format")
		if format == "" {
			return nil, false
		}
		return domain.ExportPart{
			Meta:   domain.NewMeta(),
			Format: strings.ToUpper(format),
			Path:   paramText(params, "path", "filename"),
		}, true

	case IntentClosePart:
		return domain.ClosePart{Meta: domain.NewMeta()}, true
	case IntentUndo:
		return domain.UndoCommand{Meta: domain.NewMeta()}, true
	case IntentRedo:
		return domain.RedoCommand{Meta: domain.NewMeta()}, true
	case IntentHelp:
		return domain.HelpCommand{Meta: domain.NewMeta()}, true
	case IntentShowInfo:
		return domain.ShowInfo{Meta: domain.NewMeta()}, true
	default:
		return nil, false
	}
}

func paramDimension(params map[string]ports.ParameterValue, defaultUnit domain.Unit, names ...string) (domain.Dimension, bool) {
	for _, name := range names {
		if pv, ok := params[name]; ok {
			if pv.Value == 0 && pv.Original != "" {
				if dim, parsed := domain.TryParseDimension(pv.Original, defaultUnit); parsed {
					return dim, true
				}
			}
			if pv.Value == 0 {
				continue
			}
			return domain.NewDimension(pv.Value, domain.NormalizeUnit(pv.Unit, defaultUnit)), true
		}
	}
	return domain.Dimension{}, false
}

func paramText(params map[string]ports.ParameterValue, names ...string) string {
	for _, name := range names {
		if pv, ok := params[name]; ok {
			if pv.Text != "" {
				return strings.TrimSpace(pv.Text)
			}
			if pv.Original != "" {
				return strings.TrimSpace(pv.Original)
			}
		}
	}
	return ""
}

func paramNumber(params map[string]ports.ParameterValue, names ...string) float64 {
	for _, name := range names {
		if pv, ok := params[name]; ok && pv.Value != 0 {
			return pv.Value
		}
	}
	return 0
}

func paramNumberDefault(params map[string]ports.ParameterValue, fallback float64, names ...string) float64 {
	if v := paramNumber(params, names...); v != 0 {
		return v
	}
	return fallback
}

func paramBool(params map[string]ports.ParameterValue, names ...string) bool {
	for _, name := range names {
		if pv, ok := params[name]; ok {
			if pv.Value != 0 {
				return true
			}
			switch strings.ToLower(strings.TrimSpace(pv.Text + pv.Original)) {
			case "true", "yes", "1":
				return true
			}
		}
	}
	return false
}

func dimensionTypeOf(word string) (domain.DimensionType, bool) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "width", "wide", "w":
		return domain.DimWidth, true
	case "length", "long", "l":
		return domain.DimLength, true
	case "height", "tall", "h":
		return domain.DimHeight, true
	case "thickness", "thick", "t":
		return domain.DimThickness, true
	case "radius":
		return domain.DimRadius, true
	case "diameter", "dia":
		return domain.DimDiameter, true
	case "depth", "deep":
		return domain.DimDepth, true
	default:
		return "", false
	}
}
