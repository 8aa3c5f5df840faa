package types

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks whether a JSON field was present, and whether it was null.
// Absent fields leave Valid false; an explicit null sets Valid with a nil Value.
type Nullable[T any] struct {
	Valid bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// Set reports a present, non-null value.
func (n Nullable[T]) Set() bool {
	return n.Valid && n.Value != nil
}

// Null reports an explicit null.
func (n Nullable[T]) Null() bool {
	return n.Valid && n.Value == nil
}

// Some wraps v as a present value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Valid: true, Value: &v}
}
