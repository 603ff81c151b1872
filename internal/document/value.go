// Package document models client configuration files as a JSON value tree.
//
// A Value is a tagged union over the six JSON kinds. Objects keep the order
// their keys were first seen so a document written back to disk stays
// recognisable, while equality between objects ignores key order.
package document

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
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

// Value is a single JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  string // number literal as written in the source
	str  string
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a number value from a JSON number literal.
// The literal is not validated; use Int or Float for computed numbers.
func Number(literal string) Value { return Value{kind: KindNumber, num: literal} }

// Int returns a number value.
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// Float returns a number value.
func Float(f float64) Value { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// Array returns an array value holding items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps an Object as a Value. A nil object becomes an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the number literal held by v.
func (v Value) AsNumber() (string, bool) { return v.num, v.kind == KindNumber }

// AsArray returns the items held by v. The slice must not be modified.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object held by v.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Clone()
		}
		return Value{kind: KindArray, arr: items}
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	default:
		return v
	}
}

// Equal reports whether a and b are structurally identical: same kind, same
// scalar values, arrays equal element by element in order, objects holding
// the same keys with equal values regardless of key order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindNumber:
		return numbersEqual(a.num, b.num)
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return objectsEqual(a.obj, b.obj)
	default:
		return false
	}
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	ra, okA := exactNumber(a)
	rb, okB := exactNumber(b)
	if okA && okB {
		return ra.Cmp(rb) == 0
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return false
	}
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return false
	}
	return fa == fb
}

// maxExactExponent bounds the exponents compared as exact rationals.
const maxExactExponent = 1000

// exactNumber parses a JSON number literal without rounding. Literals with
// an exponent beyond maxExactExponent are left to float comparison.
func exactNumber(lit string) (*big.Rat, bool) {
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		exp, err := strconv.Atoi(strings.TrimPrefix(lit[i+1:], "+"))
		if err != nil || exp > maxExactExponent || exp < -maxExactExponent {
			return nil, false
		}
	}
	return new(big.Rat).SetString(lit)
}

func objectsEqual(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, key := range a.Keys() {
		av, _ := a.Get(key)
		bv, ok := b.Get(key)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
