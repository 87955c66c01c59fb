package field

import "strconv"

// Value is a validated, typed field value. Values only come out of Validate
// or the typed constructors; the wizard draft never holds raw input.
type Value struct {
	kind Kind
	str  string
	num  int
	b    bool
}

// EnumValue constructs an enum value. The caller guarantees membership in the
// option set; Validate is the normal entry point.
func EnumValue(token string) Value {
	return Value{kind: KindEnum, str: token}
}

// StringValue constructs a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue constructs a number value.
func NumberValue(n int) Value {
	return Value{kind: KindNumber, num: n}
}

// BoolValue constructs a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// Kind returns the kind the value was validated as.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the display form of the value. For numbers and booleans this
// is the canonical token a re-prompt would accept again.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.Itoa(v.num)
	case KindBoolean:
		if v.b {
			return "yes"
		}
		return "no"
	default:
		return v.str
	}
}

// Number returns the numeric value. Zero for non-number kinds.
func (v Value) Number() int {
	return v.num
}

// Bool returns the boolean value. False for non-boolean kinds.
func (v Value) Bool() bool {
	return v.b
}

// IsZero reports whether the value is the zero Value (no kind).
func (v Value) IsZero() bool {
	return v.kind == ""
}

// Any returns the value in its natural Go type, for artifact assembly.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	default:
		return v.str
	}
}
