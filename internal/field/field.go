// Package field defines wizard field specifications and validates raw user
// input against them.
package field

import "fmt"

// Kind identifies the type of value a field accepts.
type Kind string

const (
	// KindEnum accepts one value out of a declared option set.
	KindEnum Kind = "enum"
	// KindString accepts free text.
	KindString Kind = "string"
	// KindNumber accepts an integer, optionally bounded.
	KindNumber Kind = "number"
	// KindBoolean accepts yes/no style tokens.
	KindBoolean Kind = "boolean"
)

// Option is one allowed value of an enum field.
type Option struct {
	// Value is the token stored in the draft when this option is chosen.
	Value string
	// Desc is a short human-readable description shown next to the value.
	Desc string
}

// Lookup resolves a previously committed draft value by stage and field name.
// It decouples default derivation from the draft's concrete representation.
type Lookup func(stage, field string) (Value, bool)

// Spec describes a single field of a wizard stage.
type Spec struct {
	// Name is unique within the stage and used as the draft key.
	Name string

	// Label is the prompt text shown to the user.
	Label string

	// Kind selects the validation rule applied to raw input.
	Kind Kind

	// Options lists the allowed values for enum fields.
	Options []Option

	// Min and Max bound number fields when HasRange is true.
	Min, Max int
	HasRange bool

	// Optional marks string fields that may be left empty.
	Optional bool

	// DeriveDefault computes a suggested value from the draft accumulated in
	// earlier stages. It is consulted on stage entry for fields that have no
	// prior value. A false return means no suggestion.
	DeriveDefault func(lookup Lookup) (Value, bool)
}

// OptionValues returns the option tokens in declared order.
func (s *Spec) OptionValues() []string {
	values := make([]string, len(s.Options))
	for i, o := range s.Options {
		values[i] = o.Value
	}
	return values
}

// InvalidInputError reports a raw input that failed a field's validation.
// It is always recoverable by re-prompting the same field.
type InvalidInputError struct {
	// Field is the name of the field that rejected the input.
	Field string
	// Reason is a short machine-stable explanation.
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for field %q: %s", e.Field, e.Reason)
}
