package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tripcraft/tripcraft/internal/realtime"
)

const heartbeatInterval = 25 * time.Second

// StreamEvents handles GET /trips/{tripId}/events as a Server-Sent Events
// stream. Repeat ?table= to narrow the tables; none means all of them. The
// subscription lives until the client disconnects.
func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	tables := r.URL.Query()["table"]
	topics := []realtime.Topic{{TripID: tripID}}
	if len(tables) > 0 {
		topics = topics[:0]
		for _, t := range tables {
			if !realtime.KnownTable(t) {
				writeError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("unknown table %q", t))
				return
			}
			topics = append(topics, realtime.Topic{Table: t, TripID: tripID})
		}
	}

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	sub := s.events.Subscribe(topics...)
	defer sub.Cancel()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		s.logger.WarnContext(r.Context(), "event stream not flushable", "error", err)
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case e, open := <-sub.C:
			if !open {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Table, data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
