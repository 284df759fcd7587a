package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes an absent JSON field from an explicit null.
//
// The zero value is "absent". UnmarshalJSON is only invoked for keys present in the
// payload, so a literal null yields Set=true, Valid=false.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

// Null returns an explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		var zero T
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Null reports an explicit null.
func (n Nullable[T]) Null() bool {
	return n.Set && !n.Valid
}

// Get returns the value when the field is present and not null.
func (n Nullable[T]) Get() (T, bool) {
	return n.Value, n.Set && n.Valid
}

// ApplyTo updates an optional field: absent leaves it, null clears it, a value replaces it.
func (n Nullable[T]) ApplyTo(dst **T) {
	if !n.Set {
		return
	}
	if !n.Valid {
		*dst = nil
		return
	}
	v := n.Value
	*dst = &v
}
