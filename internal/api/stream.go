package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/TimurManjosov/govtag/internal/snapshot"
	"github.com/TimurManjosov/govtag/internal/telemetry"
)

// handleStream handles GET /v1/forms/stream. It sends an "init" event with
// the current catalogue ETag and an "update" event whenever the catalogue
// is republished, until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		InternalError(w, r, "Streaming unsupported")
		return
	}

	updates, unsub := snapshot.Subscribe()
	defer unsub()
	telemetry.SSEClients.Inc()
	defer telemetry.SSEClients.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, "init", snapshot.Load().ETag)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case etag, open := <-updates:
			if !open {
				return
			}
			writeEvent(w, "update", etag)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event, etag string) {
	data, _ := json.Marshal(map[string]string{"etag": etag})
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
