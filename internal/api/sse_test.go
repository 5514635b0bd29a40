package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/store"
)

// SSEEvent represents a parsed Server-Sent Event
type SSEEvent struct {
	Event string
	Data  map[string]string
}

// parseSSEStream reads SSE events from a response body
func parseSSEStream(t *testing.T, scanner *bufio.Scanner) <-chan SSEEvent {
	t.Helper()
	events := make(chan SSEEvent, 10)

	go func() {
		defer close(events)
		var currentEvent, currentData string

		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				currentEvent = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				currentData = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			case line == "" && currentEvent != "":
				var data map[string]string
				_ = json.Unmarshal([]byte(currentData), &data)
				events <- SSEEvent{Event: currentEvent, Data: data}
				currentEvent, currentData = "", ""
			}
		}
	}()

	return events
}

func nextEvent(t *testing.T, events <-chan SSEEvent) SSEEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("stream closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for SSE event")
	}
	return SSEEvent{}
}

func TestSSE_InitAndUpdate(t *testing.T) {
	srv, h, st := newTestServer(t, engine.Default())
	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/forms/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected Content-Type 'text/event-stream', got '%s'", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Expected Cache-Control 'no-cache', got '%s'", cc)
	}

	events := parseSSEStream(t, bufio.NewScanner(resp.Body))

	initEvent := nextEvent(t, events)
	if initEvent.Event != "init" {
		t.Fatalf("Expected first event to be 'init', got '%s'", initEvent.Event)
	}
	if initEvent.Data["etag"] == "" {
		t.Error("Expected init event to contain etag")
	}

	_ = st.UpsertForm(context.Background(), store.UpsertParams{
		Name:   "contact",
		Fields: []store.Field{{Name: "message", Rules: "required"}},
	})
	if err := srv.RebuildSnapshot(context.Background()); err != nil {
		t.Fatal(err)
	}

	update := nextEvent(t, events)
	if update.Event != "update" {
		t.Fatalf("Expected 'update' event, got '%s'", update.Event)
	}
	if update.Data["etag"] == initEvent.Data["etag"] {
		t.Error("Expected a new etag after the catalogue changed")
	}
}
