package record

import "strconv"

// ValueKind identifies the scalar type of an answer value.
type ValueKind int

const (
	// ValueString is a textual answer.
	ValueString ValueKind = iota
	// ValueNumber is a numeric answer kept as its JSON literal.
	ValueNumber
)

// Value is a scalar answer. Numbers keep their literal text so they
// re-encode bit-for-bit.
type Value struct {
	Kind ValueKind
	Text string
}

// StringValue builds a textual value.
func StringValue(text string) Value {
	return Value{Kind: ValueString, Text: text}
}

// NumberValue builds a numeric value from a JSON number literal.
func NumberValue(literal string) Value {
	return Value{Kind: ValueNumber, Text: literal}
}

// IntValue builds a numeric value from an int.
func IntValue(n int) Value {
	return NumberValue(strconv.Itoa(n))
}

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool {
	return v.Kind == ValueNumber
}

// String returns the value text.
func (v Value) String() string {
	return v.Text
}
