package document

import (
	"fmt"
	"strings"
)

// Object is an ordered string-keyed mapping. A nil *Object reads as empty.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	c := NewObject()
	if o == nil {
		return c
	}
	for _, key := range o.keys {
		c.Set(key, o.values[key].Clone())
	}
	return c
}

// SplitPath splits a dotted section path. "" and "." address the document
// itself and yield no segments.
func SplitPath(path string) []string {
	path = strings.Trim(path, ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Section returns the object found by following path from o. found is false
// when some segment is missing; an error is returned when a segment exists
// but does not hold an object.
func (o *Object) Section(path string) (section *Object, found bool, err error) {
	cur := o
	for _, seg := range SplitPath(path) {
		v, ok := cur.Get(seg)
		if !ok {
			return nil, false, nil
		}
		next, ok := v.AsObject()
		if !ok {
			return nil, false, fmt.Errorf("section %q: %q holds %s, not an object", path, seg, v.Kind())
		}
		cur = next
	}
	if cur == nil {
		cur = NewObject()
	}
	return cur, true, nil
}

// SetSection stores section at path, creating intermediate objects as
// needed. An empty path replaces the contents of o.
func (o *Object) SetSection(path string, section *Object) error {
	segs := SplitPath(path)
	if len(segs) == 0 {
		c := section.Clone()
		o.keys, o.values = c.keys, c.values
		return nil
	}

	cur := o
	for _, seg := range segs[:len(segs)-1] {
		v, ok := cur.Get(seg)
		if !ok {
			next := NewObject()
			cur.Set(seg, ObjectValue(next))
			cur = next
			continue
		}
		next, ok := v.AsObject()
		if !ok {
			return fmt.Errorf("section %q: %q holds %s, not an object", path, seg, v.Kind())
		}
		cur = next
	}
	cur.Set(segs[len(segs)-1], ObjectValue(section))
	return nil
}
