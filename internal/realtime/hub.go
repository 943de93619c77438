package realtime

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 64

type subscriber struct {
	ch     chan Change
	tables map[string]bool // empty means all tables
}

// Hub fans published changes out to SSE subscribers and keeps a mirror per
// known table so new subscribers can start from a snapshot.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*subscriber]struct{}
	mirrors map[string]*Mirror
	log     *zap.Logger
}

func NewHub(log *zap.Logger, tables ...string) *Hub {
	mirrors := make(map[string]*Mirror, len(tables))
	for _, t := range tables {
		mirrors[t] = NewMirror()
	}
	return &Hub{
		subs:    make(map[*subscriber]struct{}),
		mirrors: mirrors,
		log:     log,
	}
}

// Tables lists the tables this hub mirrors.
func (h *Hub) Tables() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.mirrors))
	for t := range h.mirrors {
		out = append(out, t)
	}
	return out
}

// Publish applies the change to its mirror and delivers it to interested
// subscribers. Changes for tables the hub was not configured to mirror are
// dropped outright; only the enumerated shared tables may enter the stream.
// A subscriber that cannot keep up loses the change rather than blocking the
// feed; the at-least-once contract belongs to the database notifications,
// not to slow consumers.
func (h *Hub) Publish(ch Change) {
	if !ch.Valid() {
		h.log.Warn("dropping malformed change notification",
			zap.String("table", ch.Table), zap.String("op", string(ch.Op)))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	mirror, ok := h.mirrors[ch.Table]
	if !ok {
		h.log.Warn("dropping change for unmirrored table", zap.String("table", ch.Table))
		return
	}
	mirror.Apply(ch)

	for sub := range h.subs {
		if len(sub.tables) > 0 && !sub.tables[ch.Table] {
			continue
		}
		select {
		case sub.ch <- ch:
		default:
			h.log.Warn("dropping change for slow subscriber", zap.String("table", ch.Table))
		}
	}
}

// Subscribe registers a change consumer for the given tables (all tables when
// empty). The returned cancel must be called when the consumer goes away.
func (h *Hub) Subscribe(tables []string) (<-chan Change, func()) {
	filter := make(map[string]bool, len(tables))
	for _, t := range tables {
		filter[t] = true
	}

	sub := &subscriber{
		ch:     make(chan Change, subscriberBuffer),
		tables: filter,
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Mirror returns the mirror for a table, or nil when the table is not
// tracked.
func (h *Hub) Mirror(table string) *Mirror {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mirrors[table]
}
