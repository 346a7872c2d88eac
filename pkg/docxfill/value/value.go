// Package value provides the data tree that drives placeholder substitution.
//
// A Value is a closed tagged union over the JSON data model: null, boolean,
// number, string, array and object. Values are immutable once built and can be
// shared freely between concurrent renders.
//
//	data := value.Object(map[string]value.Value{
//	    "name": value.String("Alice"),
//	    "tags": value.Array(value.String("a"), value.String("b")),
//	})
//
// Paths such as "customer.address.city" or "items.0.name" are resolved with
// Resolve.
package value

import (
	"math"
	"sort"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of the data tree. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    Number
	s      string
	items  []Value
	fields map[string]Value
}

// Number keeps integers exact and everything else as float64.
type Number struct {
	i     int64
	f     float64
	isInt bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integral number.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: Number{i: i, f: float64(i), isInt: true}}
}

// Float returns a floating point number.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: Number{f: f}}
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array holding items in order.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// Object returns an object holding fields. The map is not copied.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, fields: fields}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is a bool, number or string.
func (v Value) IsScalar() bool {
	return v.kind == KindBool || v.kind == KindNumber || v.kind == KindString
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (Number, bool) { return v.num, v.kind == KindNumber }

// Len returns the number of array items or object fields.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Index returns the array item at i.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Items returns the array items. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Field returns the object field named key.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Keys returns the object keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsInt reports whether n holds an integer.
func (n Number) IsInt() bool { return n.isInt }

// Int64 returns n truncated to an integer.
func (n Number) Int64() int64 {
	if n.isInt {
		return n.i
	}
	return int64(n.f)
}

// Float64 returns n as a float.
func (n Number) Float64() float64 { return n.f }

// String returns the canonical decimal form: integers and integral floats
// have no fractional part, other floats use the shortest round-trip form.
func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	if n.f == math.Trunc(n.f) && math.Abs(n.f) < 1e15 {
		return strconv.FormatInt(int64(n.f), 10)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}
