// Package value defines the tagged value type used to represent normalized
// record data: scalars, sequences, and insertion-ordered mappings.
package value

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/elliotchance/orderedmap/v2"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the shapes a record field can take.
// The zero Value is null. Mapping values preserve insertion order so that
// flatten output and rendering stay deterministic.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    *orderedmap.OrderedMap[string, Value]
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating-point number.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence builds an ordered sequence from the given elements.
func Sequence(elems ...Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// Mapping returns a new empty mapping.
func Mapping() Value {
	return Value{kind: KindMapping, m: orderedmap.NewOrderedMap[string, Value]()}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether the value is null, bool, int, float, or string.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}

// Bool returns the boolean payload (false for other kinds).
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload (0 for other kinds).
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. Integer values are widened.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Str returns the string payload ("" for other kinds).
func (v Value) Str() string { return v.s }

// Len returns the element count for sequences and mappings, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return v.m.Len()
	}
	return 0
}

// At returns the i-th element of a sequence.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Null(), false
	}
	return v.seq[i], true
}

// Items returns the underlying sequence elements (nil for other kinds).
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// Get looks up a mapping entry by key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Null(), false
	}
	return v.m.Get(key)
}

// Set assigns a mapping entry, preserving insertion order for new keys.
// It is a no-op on non-mapping values.
func (v Value) Set(key string, val Value) {
	if v.kind != KindMapping {
		return
	}
	v.m.Set(key, val)
}

// Delete removes a mapping entry.
func (v Value) Delete(key string) {
	if v.kind == KindMapping {
		v.m.Delete(key)
	}
}

// Keys returns mapping keys in insertion order (nil for other kinds).
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	return v.m.Keys()
}

// Equal reports deep structural equality. Mapping comparison ignores
// insertion order; sequences compare element-wise in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if v.m.Len() != o.m.Len() {
			return false
		}
		for el := v.m.Front(); el != nil; el = el.Next() {
			ov, ok := o.m.Get(el.Key)
			if !ok || !el.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Copy returns a deep copy. Mutating the copy never affects the original.
func (v Value) Copy() Value {
	switch v.kind {
	case KindSequence:
		elems := make([]Value, len(v.seq))
		for i, e := range v.seq {
			elems[i] = e.Copy()
		}
		return Sequence(elems...)
	case KindMapping:
		out := Mapping()
		for el := v.m.Front(); el != nil; el = el.Next() {
			out.Set(el.Key, el.Value.Copy())
		}
		return out
	default:
		return v
	}
}

// Interface converts the value to plain Go types (nil, bool, int64, float64,
// string, []any, map[string]any) for handing to encoders. Mapping insertion
// order is lost; encoders are expected to sort keys.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, v.m.Len())
		for el := v.m.Front(); el != nil; el = el.Next() {
			out[el.Key] = el.Value.Interface()
		}
		return out
	}
	return nil
}

// String renders the value for human-facing output: scalars verbatim,
// sequences and mappings in a compact bracketed form.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, 0, v.m.Len())
		for el := v.m.Front(); el != nil; el = el.Next() {
			parts = append(parts, fmt.Sprintf("%s: %s", el.Key, el.Value.String()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
