package stage

import (
	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/field"
)

// ErrUnknownStage indicates an ID outside the fixed stage set.
var ErrUnknownStage = errors.New("unknown stage")

// Registry is the immutable, ordered catalog of stage definitions. It is
// built once at process start and passed by reference into the wizard
// engine; nothing mutates it at runtime.
type Registry struct {
	order []ID
	specs map[ID]*Spec
}

// newRegistry wires specs into a Registry preserving Order.
func newRegistry(specs ...*Spec) *Registry {
	r := &Registry{
		order: make([]ID, 0, len(specs)),
		specs: make(map[ID]*Spec, len(specs)),
	}
	for _, s := range specs {
		r.order = append(r.order, s.ID)
		r.specs[s.ID] = s
	}
	return r
}

// First returns the initial stage.
func (r *Registry) First() ID {
	return r.order[0]
}

// Last returns the terminal stage.
func (r *Registry) Last() ID {
	return r.order[len(r.order)-1]
}

// Get returns the spec for id.
func (r *Registry) Get(id ID) (*Spec, error) {
	s, ok := r.specs[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStage, "%q", id)
	}
	return s, nil
}

// Next returns the stage after id. The second return is false only past the
// terminal stage.
func (r *Registry) Next(id ID) (ID, bool) {
	for i, s := range r.order {
		if s == id && i+1 < len(r.order) {
			return r.order[i+1], true
		}
	}
	return "", false
}

// Prev returns the stage before id. The second return is false before the
// first stage.
func (r *Registry) Prev(id ID) (ID, bool) {
	for i, s := range r.order {
		if s == id && i > 0 {
			return r.order[i-1], true
		}
	}
	return "", false
}

// Index returns the position of id in the canonical order, or -1.
func (r *Registry) Index(id ID) int {
	for i, s := range r.order {
		if s == id {
			return i
		}
	}
	return -1
}

// Defaults computes the suggested values for entering the given stage, based
// on the draft accumulated so far. Only fields with a DeriveDefault and no
// entry in have contribute. Suggestions are exactly that: validation treats
// overridden and derived values identically.
func (r *Registry) Defaults(id ID, have Values, lookup field.Lookup) Values {
	spec, ok := r.specs[id]
	if !ok {
		return nil
	}

	out := Values{}
	for i := range spec.Fields {
		f := &spec.Fields[i]
		if f.DeriveDefault == nil {
			continue
		}
		if _, exists := have[f.Name]; exists {
			continue
		}
		if v, ok := f.DeriveDefault(lookup); ok {
			out[f.Name] = v
		}
	}
	return out
}
