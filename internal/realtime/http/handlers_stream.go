package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/internal/realtime"
)

const keepAliveInterval = 15 * time.Second

type Handler struct {
	hub *realtime.Hub
	log *zap.Logger
}

func New(hub *realtime.Hub, log *zap.Logger) *Handler {
	return &Handler{hub: hub, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/realtime/stream", h.StreamChanges)
}

// StreamChanges streams row changes for the requested tables using
// Server-Sent Events. Each connection starts with one snapshot event per
// table so the client can rebuild its local copy, then receives live change
// events as they arrive.
func (h *Handler) StreamChanges(c *gin.Context) {
	tables := parseTables(c.Query("tables"))
	for _, t := range tables {
		if h.hub.Mirror(t) == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown table %q", t)})
			return
		}
	}
	if len(tables) == 0 {
		tables = h.hub.Tables()
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	// Subscribe before snapshotting so no change falls in the gap; the
	// mirror makes any overlap idempotent on the client side.
	changes, cancel := h.hub.Subscribe(tables)
	defer cancel()

	for _, t := range tables {
		snapshot, _ := json.Marshal(gin.H{"table": t, "rows": h.hub.Mirror(t).Snapshot()})
		fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", snapshot)
	}
	flusher.Flush()

	ctx := c.Request.Context()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ch := <-changes:
			data, err := json.Marshal(ch)
			if err != nil {
				h.log.Error("marshal change event", zap.Error(err))
				continue
			}
			fmt.Fprintf(c.Writer, "event: change\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func parseTables(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
