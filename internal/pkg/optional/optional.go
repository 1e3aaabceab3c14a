// Package optional provides a presence-tagged value for partial updates.
//
// A JSON null and a missing key both decode to an unset Value.
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	value T
	set   bool
}

func Of[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

func (o Value[T]) IsSet() bool {
	return o.set
}

// Get returns the held value and whether one is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Value[T]) OrElse(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Of(v)
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
