// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
)

// Optional holds a value that a source record may or may not carry. The zero
// value is missing, so a field nobody assigned reads as absent rather than as
// an empty string or zero.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns a missing Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr lifts a decoded pointer field: nil is missing.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsMissing reports whether the value is absent.
func (o Optional[T]) IsMissing() bool {
	return !o.ok
}

// Or returns the value when present and def otherwise.
func (o Optional[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Text returns a present Optional for s with surrounding whitespace trimmed,
// or missing when nothing is left.
func Text(s string) Optional[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// TextPtr is Text over a decoded pointer field.
func TextPtr(p *string) Optional[string] {
	if p == nil {
		return None[string]()
	}
	return Text(*p)
}

// First returns Text of the first non-blank element of values.
func First(values []string) Optional[string] {
	for _, v := range values {
		if t := Text(v); !t.IsMissing() {
			return t
		}
	}
	return None[string]()
}

// MarshalJSON encodes a missing value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as missing.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalYAML encodes a missing value as null.
func (o Optional[T]) MarshalYAML() (any, error) {
	if !o.ok {
		return nil, nil
	}
	return o.value, nil
}
