package webhook

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/TimurManjosov/govtag/internal/store"
)

// EventBuilder provides a fluent API for constructing webhook events.
//
// Usage:
//
//	event := webhook.NewEventBuilder(r).
//		ForForm(name).
//		WithStates(before, after).
//		WithETag(etag).
//		Build()
//
//	dispatcher.Dispatch(event)
type EventBuilder struct {
	event Event
}

// NewEventBuilder creates a new builder initialized with request context.
// RealIP has already rewritten RemoteAddr when the router uses it.
func NewEventBuilder(r *http.Request) *EventBuilder {
	return &EventBuilder{
		event: Event{
			Timestamp: time.Now().UTC(),
			Metadata: Metadata{
				RequestID: middleware.GetReqID(r.Context()),
				IPAddress: r.RemoteAddr,
			},
		},
	}
}

// ForForm sets the resource to the named form.
func (b *EventBuilder) ForForm(name string) *EventBuilder {
	b.event.Resource = Resource{Type: "form", Name: name}
	return b
}

// WithStates sets the definitions before and after the change and derives
// the event type and change list:
//   - before=nil, after!=nil → created
//   - before!=nil, after=nil → deleted
//   - both non-nil → updated
//   - both nil → no event type set
func (b *EventBuilder) WithStates(before, after *store.Form) *EventBuilder {
	b.event.Data.Before = before
	b.event.Data.After = after

	switch {
	case before == nil && after != nil:
		b.event.Type = EventFormCreated
	case before != nil && after == nil:
		b.event.Type = EventFormDeleted
	case before != nil && after != nil:
		b.event.Type = EventFormUpdated
		b.event.Data.Changes = Diff(*before, *after)
	}
	return b
}

// WithETag records the catalogue version produced by the change.
func (b *EventBuilder) WithETag(etag string) *EventBuilder {
	b.event.ETag = etag
	return b
}

// Build returns the constructed Event.
func (b *EventBuilder) Build() Event {
	return b.event
}

// Diff lists what differs between two versions of a form: "description",
// "engine", and "fields.<name>: added|removed|changed". Field order changes
// are reported as "fields: reordered".
func Diff(before, after store.Form) []string {
	var changes []string
	if before.Description != after.Description {
		changes = append(changes, "description")
	}
	if before.Engine != after.Engine {
		changes = append(changes, "engine")
	}

	old := make(map[string]store.Field, len(before.Fields))
	for _, f := range before.Fields {
		old[f.Name] = f
	}
	seen := make(map[string]bool, len(after.Fields))
	for _, f := range after.Fields {
		seen[f.Name] = true
		prev, ok := old[f.Name]
		switch {
		case !ok:
			changes = append(changes, fmt.Sprintf("fields.%s: added", f.Name))
		case prev != f:
			changes = append(changes, fmt.Sprintf("fields.%s: changed", f.Name))
		}
	}
	for _, f := range before.Fields {
		if !seen[f.Name] {
			changes = append(changes, fmt.Sprintf("fields.%s: removed", f.Name))
		}
	}

	if len(changes) == 0 && !sameOrder(before.Fields, after.Fields) {
		changes = append(changes, "fields: reordered")
	}
	return changes
}

func sameOrder(a, b []store.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
