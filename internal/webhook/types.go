// Package webhook notifies external endpoints when form definitions change.
// Deliveries are signed with HMAC-SHA256 and retried with exponential
// backoff on a background worker.
package webhook

import (
	"time"

	"github.com/TimurManjosov/govtag/internal/store"
)

// Event types that can trigger webhooks
const (
	EventFormCreated = "form.created"
	EventFormUpdated = "form.updated"
	EventFormDeleted = "form.deleted"
)

// AllEvents lists every event type, used when an endpoint names none.
var AllEvents = []string{EventFormCreated, EventFormUpdated, EventFormDeleted}

// Event represents a webhook event that will be sent to subscribed endpoints
type Event struct {
	Type      string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Resource  Resource  `json:"resource"`
	// ETag is the catalogue ETag after the change.
	ETag     string    `json:"etag,omitempty"`
	Data     EventData `json:"data"`
	Metadata Metadata  `json:"metadata"`
}

// Resource identifies the resource that triggered the event
type Resource struct {
	Type string `json:"type"` // always "form"
	Name string `json:"name"`
}

// EventData contains the before/after definitions and what changed
type EventData struct {
	Before  *store.Form `json:"before,omitempty"`
	After   *store.Form `json:"after,omitempty"`
	Changes []string    `json:"changes,omitempty"`
}

// Metadata contains additional context about the event
type Metadata struct {
	IPAddress string `json:"ipAddress,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Endpoint is one subscriber.
type Endpoint struct {
	URL    string
	Secret string
	// Events filters the event types sent; empty means all.
	Events     []string
	MaxRetries int
	Timeout    time.Duration
}

func (e Endpoint) wants(eventType string) bool {
	if len(e.Events) == 0 {
		return true
	}
	for _, t := range e.Events {
		if t == eventType {
			return true
		}
	}
	return false
}
