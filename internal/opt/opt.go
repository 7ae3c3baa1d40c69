// Package opt provides an optional value whose presence is recorded while decoding JSON,
// so partial updates can tell "field omitted" apart from "field set to its zero value".
package opt

import "github.com/goccy/go-json"

// Value holds a T together with a flag telling whether it was provided.
// A JSON null is treated the same as an omitted field.
type Value[T any] struct {
	val T
	set bool
}

// Of returns a provided value.
func Of[T any](v T) Value[T] {
	return Value[T]{val: v, set: true}
}

// Get returns the value and whether it was provided.
func (o Value[T]) Get() (T, bool) {
	return o.val, o.set
}

func (o Value[T]) IsSet() bool { return o.set }

// OrElse returns the value if provided, otherwise def.
func (o Value[T]) OrElse(def T) T {
	if o.set {
		return o.val
	}
	return def
}

// Apply assigns the value to dst when provided and reports whether it did.
func (o Value[T]) Apply(dst *T) bool {
	if !o.set {
		return false
	}
	*dst = o.val
	return true
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.val = v
	o.set = true
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.val)
}
