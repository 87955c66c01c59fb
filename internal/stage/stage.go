package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/forge-cli/forge/internal/field"
)

// ID identifies a wizard stage. The set and order are fixed; Review is
// always last and terminal.
type ID string

const (
	UseCase      ID = "use_case"
	Auth         ID = "auth"
	ModelRouting ID = "model_routing"
	Persistence  ID = "persistence"
	Environment  ID = "environment"
	Review       ID = "review"
)

// Order is the canonical stage sequence.
var Order = []ID{UseCase, Auth, ModelRouting, Persistence, Environment, Review}

// Values maps field names to their validated values for one stage.
type Values map[string]field.Value

// Clone returns an independent copy of the values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Get returns the value for name and whether it is present.
func (v Values) Get(name string) (field.Value, bool) {
	val, ok := v[name]
	return val, ok
}

// Spec describes one stage: its fields in prompt order and an optional
// cross-field validation. Specs are immutable after registry construction.
type Spec struct {
	ID    ID
	Title string

	// Fields in the order they are prompted.
	Fields []field.Spec

	// Validate runs after all fields of the stage passed individual
	// validation. Nil means no cross-field check.
	Validate func(ctx context.Context, values Values) error
}

// Field returns the field spec with the given name, or nil.
func (s *Spec) Field(name string) *field.Spec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// ValidationError reports a failed cross-field stage check. Recoverable by
// re-prompting any field of the stage.
type ValidationError struct {
	Stage    ID
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("stage %s: %s", e.Stage, strings.Join(e.Problems, "; "))
}
