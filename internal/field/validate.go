package field

import (
	"strconv"
	"strings"
)

// Reasons reported by Validate via InvalidInputError. Kept stable so callers
// can branch on them.
const (
	ReasonNotInSet   = "not in allowed set"
	ReasonNotNumeric = "not numeric"
	ReasonOutOfRange = "out of range"
	ReasonEmpty      = "empty"
	ReasonNotBoolean = "not a boolean token"
)

// Truthy and falsy tokens accepted by boolean fields, matched case-insensitively.
var (
	truthyTokens = []string{"y", "yes", "true", "1"}
	falsyTokens  = []string{"n", "no", "false", "0"}
)

// Validate checks raw input against the field's constraint and returns the
// typed value. It is pure: no side effects, same input always yields the
// same result.
//
// Enum fields accept either the exact option token or a 1-based index into
// the option list. Number fields must parse as an integer and lie within
// [Min, Max] when a range is declared. String fields must be non-empty after
// trimming unless the spec marks them optional. Boolean fields accept a fixed
// token set (yes/no, true/false, 1/0, y/n).
func Validate(spec *Spec, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)

	switch spec.Kind {
	case KindEnum:
		return validateEnum(spec, raw)
	case KindNumber:
		return validateNumber(spec, raw)
	case KindBoolean:
		return validateBool(spec, raw)
	default:
		return validateString(spec, raw)
	}
}

func validateEnum(spec *Spec, raw string) (Value, error) {
	if raw == "" {
		return Value{}, &InvalidInputError{Field: spec.Name, Reason: ReasonNotInSet}
	}

	// Exact token match first
	for _, o := range spec.Options {
		if raw == o.Value {
			return EnumValue(o.Value), nil
		}
	}

	// 1-based menu index
	if idx, err := strconv.Atoi(raw); err == nil {
		if idx >= 1 && idx <= len(spec.Options) {
			return EnumValue(spec.Options[idx-1].Value), nil
		}
	}

	return Value{}, &InvalidInputError{Field: spec.Name, Reason: ReasonNotInSet}
}

func validateNumber(spec *Spec, raw string) (Value, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Value{}, &InvalidInputError{Field: spec.Name, Reason: ReasonNotNumeric}
	}

	if spec.HasRange && (n < spec.Min || n > spec.Max) {
		return Value{}, &InvalidInputError{Field: spec.Name, Reason: ReasonOutOfRange}
	}

	return NumberValue(n), nil
}

func validateString(spec *Spec, raw string) (Value, error) {
	if raw == "" && !spec.Optional {
		return Value{}, &InvalidInputError{Field: spec.Name, Reason: ReasonEmpty}
	}
	return StringValue(raw), nil
}

func validateBool(spec *Spec, raw string) (Value, error) {
	token := strings.ToLower(raw)
	for _, t := range truthyTokens {
		if token == t {
			return BoolValue(true), nil
		}
	}
	for _, t := range falsyTokens {
		if token == t {
			return BoolValue(false), nil
		}
	}
	return Value{}, &InvalidInputError{Field: spec.Name, Reason: ReasonNotBoolean}
}
