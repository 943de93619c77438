package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recvChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func TestHubPublish(t *testing.T) {
	t.Run("delivers to subscribers and updates the mirror", func(t *testing.T) {
		hub := NewHub(zap.NewNop(), "events", "messages")

		ch, cancel := hub.Subscribe([]string{"events"})
		defer cancel()

		hub.Publish(Change{Table: "events", Op: OpInsert, ID: "e-1", Row: json.RawMessage(`{"id":"e-1"}`)})

		got := recvChange(t, ch)
		assert.Equal(t, "e-1", got.ID)
		assert.Equal(t, 1, hub.Mirror("events").Len())
	})

	t.Run("table filter excludes other tables", func(t *testing.T) {
		hub := NewHub(zap.NewNop(), "events", "messages")

		ch, cancel := hub.Subscribe([]string{"messages"})
		defer cancel()

		hub.Publish(Change{Table: "events", Op: OpInsert, ID: "e-1", Row: json.RawMessage(`{}`)})
		hub.Publish(Change{Table: "messages", Op: OpInsert, ID: "m-1", Row: json.RawMessage(`{}`)})

		got := recvChange(t, ch)
		assert.Equal(t, "messages", got.Table)
		select {
		case extra := <-ch:
			t.Fatalf("unexpected extra change %+v", extra)
		default:
		}
	})

	t.Run("empty filter receives everything", func(t *testing.T) {
		hub := NewHub(zap.NewNop(), "events", "messages")

		ch, cancel := hub.Subscribe(nil)
		defer cancel()

		hub.Publish(Change{Table: "events", Op: OpInsert, ID: "e-1", Row: json.RawMessage(`{}`)})
		hub.Publish(Change{Table: "messages", Op: OpInsert, ID: "m-1", Row: json.RawMessage(`{}`)})

		assert.Equal(t, "events", recvChange(t, ch).Table)
		assert.Equal(t, "messages", recvChange(t, ch).Table)
	})

	t.Run("canceled subscriber stops receiving", func(t *testing.T) {
		hub := NewHub(zap.NewNop(), "events")

		ch, cancel := hub.Subscribe(nil)
		cancel()

		hub.Publish(Change{Table: "events", Op: OpInsert, ID: "e-1", Row: json.RawMessage(`{}`)})
		select {
		case c := <-ch:
			t.Fatalf("unexpected change after cancel %+v", c)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("malformed changes are dropped before fan-out", func(t *testing.T) {
		hub := NewHub(zap.NewNop(), "events")

		ch, cancel := hub.Subscribe(nil)
		defer cancel()

		hub.Publish(Change{Table: "events", Op: OpInsert})
		select {
		case c := <-ch:
			t.Fatalf("unexpected change %+v", c)
		case <-time.After(50 * time.Millisecond):
		}
		assert.Equal(t, 0, hub.Mirror("events").Len())
	})

	t.Run("unmirrored tables never reach subscribers", func(t *testing.T) {
		hub := NewHub(zap.NewNop(), "events")

		ch, cancel := hub.Subscribe(nil)
		defer cancel()

		hub.Publish(Change{Table: "profiles", Op: OpInsert, ID: "u-1",
			Row: json.RawMessage(`{"id":"u-1","password_hash":"secret"}`)})
		select {
		case c := <-ch:
			t.Fatalf("unexpected change %+v", c)
		case <-time.After(50 * time.Millisecond):
		}
		assert.Nil(t, hub.Mirror("profiles"))
	})
}

func TestHubTables(t *testing.T) {
	hub := NewHub(zap.NewNop(), "events", "event_signups", "messages")
	require.ElementsMatch(t, []string{"events", "event_signups", "messages"}, hub.Tables())
}
