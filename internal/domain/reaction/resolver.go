package reaction

// DefaultProtonID is the KEGG identifier of H+.
const DefaultProtonID = "C00080"

// Resolver maps participant names of one model to canonical compound
// identifiers.
type Resolver struct {
	table    map[string]string
	protonID string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithProtonID sets the identifier elided from resolved reactions. An empty
// id disables elision.
func WithProtonID(id string) ResolverOption {
	return func(r *Resolver) { r.protonID = id }
}

// NewResolver builds a Resolver over table, which maps free-text names
// (optionally compartment-suffixed, e.g. "atp[c]") to identifiers. The table is
// not copied and must not be mutated afterwards.
func NewResolver(table map[string]string, opts ...ResolverOption) *Resolver {
	r := &Resolver{table: table, protonID: DefaultProtonID}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ProtonID returns the identifier elided by ResolveReaction.
func (r *Resolver) ProtonID() string { return r.protonID }

// Resolve looks a participant up by its token as written, then by its bare
// name. A global compartment never qualifies the key: "[c]atp" is looked up
// as "atp" only.
func (r *Resolver) Resolve(p Participant) (string, bool) {
	if id, ok := r.table[p.Raw]; ok {
		return id, true
	}
	if p.Name == p.Raw {
		return "", false
	}
	id, ok := r.table[p.Name]
	return id, ok
}

// ResolveReaction returns a copy of rx with every participant name replaced by
// its identifier and proton participants removed. It reports false when any
// participant cannot be resolved or when a side is left empty: a reaction
// missing a participant is discarded whole rather than kept partially.
func (r *Resolver) ResolveReaction(rx *Reaction) (*Reaction, bool) {
	left, ok := r.resolveSide(rx.Left)
	if !ok {
		return nil, false
	}
	right, ok := r.resolveSide(rx.Right)
	if !ok {
		return nil, false
	}
	return &Reaction{Left: left, Right: right, GlobalCompartment: rx.GlobalCompartment}, true
}

func (r *Resolver) resolveSide(side Side) (Side, bool) {
	out := make(Side, 0, len(side))
	for _, p := range side {
		id, ok := r.Resolve(p)
		if !ok {
			return nil, false
		}
		if r.protonID != "" && id == r.protonID {
			continue
		}
		out = append(out, Participant{
			Coefficient: p.Coefficient,
			Raw:         p.Raw,
			Name:        id,
			Compartment: p.Compartment,
		})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
