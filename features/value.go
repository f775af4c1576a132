package features

import (
	"math"
	"strconv"
)

type valueKind uint8

const (
	nullKind valueKind = iota
	numberKind
	textKind
)

// Value is a single raw cell: a number, a string, or null.
// The zero Value is null.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Null is the absent value.
var Null = Value{}

// Number wraps a numeric cell.
func Number(f float64) Value {
	return Value{kind: numberKind, num: f}
}

// Text wraps a string cell.
func Text(s string) Value {
	return Value{kind: textKind, str: s}
}

// finite reports whether f is usable as a feature value: not NaN, not ±Inf.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool {
	return v.kind == nullKind
}

// Float returns the numeric payload, if any.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == numberKind
}

// Text returns the string payload, if any.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == textKind
}

func (v Value) String() string {
	switch v.kind {
	case numberKind:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case textKind:
		return strconv.Quote(v.str)
	default:
		return "null"
	}
}

// RawRecord maps field names to raw cell values. A field that is not present
// reads as null.
type RawRecord map[string]Value

// Get returns the value stored for field, or Null.
func (r RawRecord) Get(field string) Value {
	return r[field]
}

// Has reports whether field is present in the record, null or not.
func (r RawRecord) Has(field string) bool {
	_, ok := r[field]
	return ok
}
