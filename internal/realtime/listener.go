package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// NotifyChannel is the Postgres NOTIFY channel the schema triggers publish
// to.
const NotifyChannel = "app_changes"

const (
	minReconnectInterval = 5 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener bridges Postgres LISTEN/NOTIFY into the hub. pq.Listener
// reconnects with bounded backoff on its own; a notification that cannot be
// parsed or references an unknown shape is logged and skipped, never fatal.
type Listener struct {
	pql *pq.Listener
	hub *Hub
	log *zap.Logger
}

func NewListener(dsn string, hub *Hub, log *zap.Logger) *Listener {
	pql := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Warn("realtime listener event", zap.Int("event", int(ev)), zap.Error(err))
			}
		})

	return &Listener{pql: pql, hub: hub, log: log}
}

// Run listens until the context is canceled.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.pql.Listen(NotifyChannel); err != nil {
		return err
	}
	defer l.pql.Close()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case n := <-l.pql.Notify:
			// nil notification signals a re-established connection; the
			// mirror may have missed changes, subscribers re-sync from
			// snapshots.
			if n == nil {
				l.log.Info("realtime listener reconnected")
				continue
			}
			l.dispatch(n.Extra)

		case <-ping.C:
			if err := l.pql.Ping(); err != nil {
				l.log.Warn("realtime listener ping", zap.Error(err))
			}
		}
	}
}

func (l *Listener) dispatch(payload string) {
	var ch Change
	if err := json.Unmarshal([]byte(payload), &ch); err != nil {
		l.log.Warn("unparseable change notification", zap.Error(err))
		return
	}
	l.hub.Publish(ch)
}
