package miner

import (
	"bytes"
	"encoding/json"
)

type optState uint8

const (
	optAbsent optState = iota
	optNull
	optSet
)

// Opt is an optional payload value that keeps three states apart: absent
// (the key was not sent), null (the key was sent as null) and set.
//
// The zero value is absent. Use the omitzero struct tag so absent values are
// left out when marshalling.
type Opt[T any] struct {
	value T
	state optState
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, state: optSet}
}

// Null returns an Opt that was explicitly reported as null.
func Null[T any]() Opt[T] {
	return Opt[T]{state: optNull}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.state == optSet
}

// OrElse returns the value if set, otherwise def.
func (o Opt[T]) OrElse(def T) T {
	if o.state == optSet {
		return o.value
	}
	return def
}

func (o Opt[T]) IsSet() bool    { return o.state == optSet }
func (o Opt[T]) IsNull() bool   { return o.state == optNull }
func (o Opt[T]) IsAbsent() bool { return o.state == optAbsent }

// IsZero reports whether the value is absent. encoding/json uses it for
// omitzero.
func (o Opt[T]) IsZero() bool {
	return o.state == optAbsent
}

// MarshalJSON writes null for both absent and null values; absent values are
// normally dropped earlier by omitzero.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if o.state != optSet {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON is only called when the key is present, so a missing key
// leaves the Opt absent.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value = zero
		o.state = optNull
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.state = optSet
	return nil
}
