// Package realtime turns Postgres change notifications into an in-process
// feed: a LISTEN/NOTIFY listener publishes row changes to a hub, per-table
// mirrors keep an id-keyed snapshot, and an SSE handler streams both to
// clients.
package realtime

import "encoding/json"

// Op is a normalized change kind.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is one at-least-once, per-table-ordered row change notification.
type Change struct {
	Table string          `json:"table"`
	Op    Op              `json:"op"`
	ID    string          `json:"id"`
	Row   json.RawMessage `json:"row,omitempty"`
}

// Valid reports whether the change can be applied by primary key.
func (c Change) Valid() bool {
	if c.Table == "" || c.ID == "" {
		return false
	}
	switch c.Op {
	case OpInsert, OpUpdate, OpDelete:
		return true
	}
	return false
}
