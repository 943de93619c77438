package realtime

import (
	"encoding/json"
	"sync"
)

// Mirror is an id-keyed copy of one table, maintained from change
// notifications. Application is idempotent: redelivery of a change is a
// no-op, an update for an unknown id is treated as an insert, and a delete
// for an unknown id is ignored.
type Mirror struct {
	mu   sync.RWMutex
	rows map[string]json.RawMessage
}

func NewMirror() *Mirror {
	return &Mirror{rows: make(map[string]json.RawMessage)}
}

// Apply folds one change into the mirror.
func (m *Mirror) Apply(ch Change) {
	if !ch.Valid() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch ch.Op {
	case OpInsert, OpUpdate:
		m.rows[ch.ID] = ch.Row
	case OpDelete:
		delete(m.rows, ch.ID)
	}
}

// Snapshot returns the current rows. Order is unspecified; consumers sort by
// their own keys.
func (m *Mirror) Snapshot() []json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]json.RawMessage, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out
}

// Len reports the number of mirrored rows.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
