package models

import (
	"encoding/json"
	"time"
)

// Column is one of the three board lanes.
type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "inprogress"
	ColumnDone       Column = "done"
)

// Valid reports whether c names a known lane.
func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnInProgress, ColumnDone:
		return true
	}
	return false
}

// BoardItem is a card on the shared board. ID, Username and CreatedAt never
// change after creation.
type BoardItem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Username   string    `json:"username"`
	AssignedTo *string   `json:"assigned_to"`
	Column     Column    `json:"column_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Optional is a JSON field that remembers whether its key was present in the
// decoded payload. A present null sets Set with the zero Value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON is only invoked for keys that appear in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON encodes the held value.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// BoardPatch is a partial board item update. Fields without Set are left
// untouched in storage.
type BoardPatch struct {
	Title      Optional[string]  `json:"title"`
	Content    Optional[string]  `json:"content"`
	Column     Optional[Column]  `json:"column_name"`
	AssignedTo Optional[*string] `json:"assigned_to"`
}
