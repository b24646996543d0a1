// Package host provides model-host adapters. MemoryHost is the built-in
// in-process host: it keeps documents and their feature trees in memory and
// supports native undo/redo through a per-document state journal. It stands in
// for an external CAD session wherever one is not connected, and backs the
// test suites of the layers above.
package host

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

type feature struct {
	id   string
	name string
	kind domain.CommandKind
	dims map[domain.DimensionType]domain.Dimension
	note string
}

type docState struct {
	features []feature
	nextID   int
}

type document struct {
	name  string
	state docState
	undo  []docState
	redo  []docState
	saved bool
}

// MemoryHost implements ports.ModelHost entirely in memory.
type MemoryHost struct {
	mu      sync.Mutex
	docs    map[domain.DocumentRef]*document
	nextDoc int
}

// NewMemoryHost returns an empty host session.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{docs: make(map[domain.DocumentRef]*document)}
}

func (h *MemoryHost) CreateDocument(ctx context.Context, name string) (domain.DocumentRef, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextDoc++
	ref := domain.DocumentRef(fmt.Sprintf("doc-%d", h.nextDoc))
	h.docs[ref] = &document{name: name}
	return ref, nil
}

func (h *MemoryHost) CreateBox(ctx context.Context, doc domain.DocumentRef, cmd domain.CreateBox) (domain.FeatureRef, error) {
	return h.addFeature(ctx, doc, cmd.Name, cmd.Kind(), map[domain.DimensionType]domain.Dimension{
		domain.DimWidth:  cmd.Width,
		domain.DimLength: cmd.Length,
		domain.DimHeight: cmd.Height,
	}, "")
}

func (h *MemoryHost) CreateCylinder(ctx context.Context, doc domain.DocumentRef, cmd domain.CreateCylinder) (domain.FeatureRef, error) {
	return h.addFeature(ctx, doc, cmd.Name, cmd.Kind(), map[domain.DimensionType]domain.Dimension{
		domain.DimDiameter: cmd.Diameter,
		domain.DimHeight:   cmd.Height,
	}, "")
}

func (h *MemoryHost) AddExtrusion(ctx context.Context, doc domain.DocumentRef, cmd domain.AddExtrusion) (domain.FeatureRef, error) {
	return h.addFeature(ctx, doc, "", cmd.Kind(), map[domain.DimensionType]domain.Dimension{
		domain.DimDepth: cmd.Depth,
	}, "")
}

func (h *MemoryHost) AddCut(ctx context.Context, doc domain.DocumentRef, cmd domain.AddCut) (domain.FeatureRef, error) {
	dims := map[domain.DimensionType]domain.Dimension{}
	note := ""
	if cmd.ThroughAll {
		note = "through all"
	} else {
		dims[domain.DimDepth] = cmd.Depth
	}
	return h.addFeature(ctx, doc, "", cmd.Kind(), dims, note)
}

func (h *MemoryHost) AddFillet(ctx context.Context, doc domain.DocumentRef, cmd domain.AddFillet) (domain.FeatureRef, error) {
	note := ""
	if cmd.AllEdges {
		note = "all edges"
	}
	return h.addFeature(ctx, doc, "", cmd.Kind(), map[domain.DimensionType]domain.Dimension{
		domain.DimRadius: cmd.Radius,
	}, note)
}

func (h *MemoryHost) AddChamfer(ctx context.Context, doc domain.DocumentRef, cmd domain.AddChamfer) (domain.FeatureRef, error) {
	note := ""
	if cmd.AllEdges {
		note = "all edges"
	}
	return h.addFeature(ctx, doc, "", cmd.Kind(), map[domain.DimensionType]domain.Dimension{
		domain.DimWidth: cmd.Distance,
	}, note)
}

func (h *MemoryHost) AddHole(ctx context.Context, doc domain.DocumentRef, cmd domain.AddHole) (domain.FeatureRef, error) {
	dims := map[domain.DimensionType]domain.Dimension{
		domain.DimDiameter: cmd.Diameter,
	}
	note := ""
	if cmd.ThroughAll {
		note = "through all"
	} else {
		dims[domain.DimDepth] = cmd.Depth
	}
	if cmd.Centered {
		if note != "" {
			note += ", "
		}
		note += "centered"
	}
	return h.addFeature(ctx, doc, "", cmd.Kind(), dims, note)
}

func (h *MemoryHost) AddPattern(ctx context.Context, doc domain.DocumentRef, cmd domain.AddPattern) (domain.FeatureRef, error) {
	return h.addFeature(ctx, doc, "", cmd.Kind(), map[domain.DimensionType]domain.Dimension{
		domain.DimWidth: cmd.Spacing,
	}, fmt.Sprintf("%d instances", cmd.Count))
}

// ModifyDimension applies the modification to the newest feature that carries
// the target dimension type. Matching goes through DimensionType.Canonical, so
// a spoken "thickness" reaches the height a box actually stores.
func (h *MemoryHost) ModifyDimension(ctx context.Context, doc domain.DocumentRef, cmd domain.ModifyDimension) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return err
	}

	idx, key := -1, cmd.Target
	for i := len(d.state.features) - 1; i >= 0 && idx < 0; i-- {
		if k, ok := d.state.features[i].dimensionKey(cmd.Target); ok {
			idx, key = i, k
		}
	}
	if idx < 0 {
		return fmt.Errorf("no feature has a %s dimension", cmd.Target)
	}

	d.checkpoint()
	current := d.state.features[idx].dims[key]
	updated, err := applyModification(current, cmd)
	if err != nil {
		d.rollback()
		return err
	}
	d.state.features[idx].dims[key] = updated
	return nil
}

// dimensionKey resolves the stored key that answers for the requested type,
// honoring canonical aliases. An exact match wins over an aliased one.
func (f feature) dimensionKey(target domain.DimensionType) (domain.DimensionType, bool) {
	if _, ok := f.dims[target]; ok {
		return target, true
	}
	want := target.Canonical()
	for k := range f.dims {
		if k.Canonical() == want {
			return k, true
		}
	}
	return "", false
}

func applyModification(current domain.Dimension, cmd domain.ModifyDimension) (domain.Dimension, error) {
	switch cmd.Modification {
	case domain.ModSetTo:
		return cmd.Amount, nil
	case domain.ModIncreaseBy:
		return current.Add(cmd.Amount), nil
	case domain.ModDecreaseBy:
		next := current.Sub(cmd.Amount)
		if next.Value <= 0 {
			return domain.Dimension{}, fmt.Errorf("%s would become non-positive", cmd.Target)
		}
		return next, nil
	case domain.ModMultiplyBy:
		if cmd.Factor == 0 {
			return domain.Dimension{}, fmt.Errorf("multiply factor is zero")
		}
		return current.Scale(cmd.Factor), nil
	case domain.ModDivideBy:
		if cmd.Factor == 0 {
			return domain.Dimension{}, fmt.Errorf("divide factor is zero")
		}
		return current.Div(cmd.Factor), nil
	default:
		return domain.Dimension{}, fmt.Errorf("unknown modification %q", cmd.Modification)
	}
}

func (h *MemoryHost) Save(ctx context.Context, doc domain.DocumentRef, path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return err
	}
	d.saved = true
	_ = path
	return nil
}

func (h *MemoryHost) Export(ctx context.Context, doc domain.DocumentRef, path, format string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return err
	}
	if len(d.state.features) == 0 {
		return fmt.Errorf("nothing to export")
	}
	_, _ = path, format
	return nil
}

func (h *MemoryHost) Close(ctx context.Context, doc domain.DocumentRef) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.lookup(ctx, doc); err != nil {
		return err
	}
	delete(h.docs, doc)
	return nil
}

func (h *MemoryHost) Undo(ctx context.Context, doc domain.DocumentRef) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return err
	}
	if len(d.undo) == 0 {
		return fmt.Errorf("undo journal is empty")
	}
	d.redo = append(d.redo, d.state.clone())
	d.state = d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	return nil
}

func (h *MemoryHost) Redo(ctx context.Context, doc domain.DocumentRef) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return err
	}
	if len(d.redo) == 0 {
		return fmt.Errorf("redo journal is empty")
	}
	d.undo = append(d.undo, d.state.clone())
	d.state = d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	return nil
}

// Info renders the document's feature tree.
func (h *MemoryHost) Info(ctx context.Context, doc domain.DocumentRef) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Part: %s (%d features)\n", d.name, len(d.state.features))
	for _, f := range d.state.features {
		fmt.Fprintf(&b, "  %s [%s]", f.name, f.kind)
		types := make([]string, 0, len(f.dims))
		for t := range f.dims {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&b, " %s=%s", t, f.dims[domain.DimensionType(t)])
		}
		if f.note != "" {
			fmt.Fprintf(&b, " (%s)", f.note)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// FeatureCount reports how many features a document holds. Test helper.
func (h *MemoryHost) FeatureCount(doc domain.DocumentRef) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.docs[doc]
	if !ok {
		return 0
	}
	return len(d.state.features)
}

// DimensionOf reports the named dimension of the newest feature carrying it.
// Test helper.
func (h *MemoryHost) DimensionOf(doc domain.DocumentRef, t domain.DimensionType) (domain.Dimension, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.docs[doc]
	if !ok {
		return domain.Dimension{}, false
	}
	for i := len(d.state.features) - 1; i >= 0; i-- {
		if k, ok := d.state.features[i].dimensionKey(t); ok {
			return d.state.features[i].dims[k], true
		}
	}
	return domain.Dimension{}, false
}

func (h *MemoryHost) addFeature(ctx context.Context, doc domain.DocumentRef, name string, kind domain.CommandKind, dims map[domain.DimensionType]domain.Dimension, note string) (domain.FeatureRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.lookup(ctx, doc)
	if err != nil {
		return domain.FeatureRef{}, err
	}

	d.checkpoint()
	d.state.nextID++
	f := feature{
		id:   fmt.Sprintf("f-%d", d.state.nextID),
		kind: kind,
		dims: dims,
		note: note,
	}
	if name == "" {
		name = defaultFeatureName(kind, d.state.nextID)
	}
	f.name = name
	d.state.features = append(d.state.features, f)
	return domain.FeatureRef{ID: f.id, Name: f.name}, nil
}

func defaultFeatureName(kind domain.CommandKind, n int) string {
	base := strings.TrimPrefix(string(kind), "create_")
	base = strings.TrimPrefix(base, "add_")
	if base == "" {
		base = "feature"
	}
	return fmt.Sprintf("%s%s%d", strings.ToUpper(base[:1]), base[1:], n)
}

func (h *MemoryHost) lookup(ctx context.Context, doc domain.DocumentRef) (*document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := h.docs[doc]
	if !ok {
		return nil, fmt.Errorf("unknown document %q", doc)
	}
	return d, nil
}

// checkpoint snapshots the current state onto the undo journal and clears the
// redo journal. Call before any mutation.
func (d *document) checkpoint() {
	d.undo = append(d.undo, d.state.clone())
	d.redo = nil
}

// rollback discards the most recent checkpoint after a failed mutation.
func (d *document) rollback() {
	if len(d.undo) == 0 {
		return
	}
	d.state = d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
}

func (s docState) clone() docState {
	out := docState{nextID: s.nextID}
	out.features = make([]feature, len(s.features))
	for i, f := range s.features {
		dims := make(map[domain.DimensionType]domain.Dimension, len(f.dims))
		for k, v := range f.dims {
			dims[k] = v
		}
		f.dims = dims
		out.features[i] = f
	}
	return out
}

var _ ports.ModelHost = (*MemoryHost)(nil)
