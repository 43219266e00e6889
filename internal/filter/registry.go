package filter

// Definition is one selectable visual filter. Expression is a composable
// image-processing string, e.g. "contrast(1.2) saturate(1.4)".
type Definition struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Registry is the fixed, ordered filter catalog. The no-op "Original"
// filter is always first and doubles as the fallback for unknown ids.
type Registry struct {
	defs  []Definition
	index map[string]int
}

func NewRegistry() *Registry {
	return newRegistry([]Definition{
		{ID: "original", Name: "Original", Expression: ""},
		{ID: "heat", Name: "Heat", Expression: "brightness(1.1) saturate(1.4) sepia(0.25)"},
		{ID: "frost", Name: "Frost", Expression: "brightness(1.05) saturate(0.7) hue-rotate(180deg)"},
		{ID: "noir", Name: "Noir", Expression: "grayscale(1) contrast(1.3)"},
		{ID: "fever", Name: "Fever", Expression: "hue-rotate(25deg) saturate(1.6) contrast(1.1)"},
	})
}

func newRegistry(defs []Definition) *Registry {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.ID] = i
	}
	return &Registry{defs: defs, index: index}
}

// List returns the catalog in fixed order.
func (r *Registry) List() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get returns the filter for id, or the first entry when id is unknown.
// It never fails.
func (r *Registry) Get(id string) Definition {
	if i, ok := r.index[id]; ok {
		return r.defs[i]
	}
	return r.defs[0]
}

// Next returns the cyclic successor of id, wrapping at the end.
func (r *Registry) Next(id string) Definition {
	i, ok := r.index[id]
	if !ok {
		i = 0
	}
	return r.defs[(i+1)%len(r.defs)]
}

// Previous returns the cyclic predecessor of id, wrapping at the start.
func (r *Registry) Previous(id string) Definition {
	i, ok := r.index[id]
	if !ok {
		i = 0
	}
	return r.defs[(i-1+len(r.defs))%len(r.defs)]
}

// Len reports the catalog size.
func (r *Registry) Len() int {
	return len(r.defs)
}
