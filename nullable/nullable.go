// Package nullable provides NULL-aware column values for use in statement
// arguments and scan targets. Each type embeds sql.Null[T], so it implements
// sql.Scanner and driver.Valuer, and marshals to/from JSON null.
package nullable

import (
	"database/sql"
	"encoding/json/v2"
	"time"
)

type Val[T any] struct {
	sql.Null[T]
}

// Of wraps a present (non-NULL) value.
func Of[T any](v T) Val[T] {
	return Val[T]{sql.Null[T]{V: v, Valid: true}}
}

func (n Val[T]) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.V)
	}
	return []byte("null"), nil
}

func (n *Val[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		n.V = zero
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &n.V); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// ForceValue returns the value, or the zero value when NULL.
func (n Val[T]) ForceValue() T {
	if !n.Valid {
		var zero T
		return zero
	}
	return n.V
}

func (n Val[T]) IsNil() bool {
	return !n.Valid
}

type (
	Int    = Val[int64]
	Float  = Val[float64]
	Bool   = Val[bool]
	String = Val[string]
	Time   = Val[time.Time]
)
