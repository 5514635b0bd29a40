// Package snapshot holds the read-only catalogue of form definitions served
// to validators. Readers call Load; writers publish a rebuilt catalogue with
// Update and listeners learn about it through Subscribe.
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/cespare/xxhash/v2"
)

// Snapshot is an immutable view of every form definition.
type Snapshot struct {
	ETag      string                `json:"etag"`
	Forms     map[string]store.Form `json:"forms"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

var current atomic.Pointer[Snapshot]

// Load returns the published catalogue, or an empty one before the first
// Update.
func Load() *Snapshot {
	if s := current.Load(); s != nil {
		return s
	}
	return &Snapshot{Forms: map[string]store.Form{}, UpdatedAt: time.Now().UTC()}
}

// Update publishes s and notifies subscribers of its ETag.
func Update(s *Snapshot) {
	current.Store(s)
	publishUpdate(s.ETag)
}

// BuildFromForms indexes forms by name and derives a weak ETag from their
// content. The same forms always produce the same ETag.
func BuildFromForms(forms []store.Form) *Snapshot {
	byName := make(map[string]store.Form, len(forms))
	for _, f := range forms {
		byName[f.Name] = f
	}
	// json.Marshal sorts map keys, so the digest is order independent.
	blob, _ := json.Marshal(byName)
	etag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(blob))
	return &Snapshot{ETag: etag, Forms: byName, UpdatedAt: time.Now().UTC()}
}

// Form looks up a form definition by name.
func (s *Snapshot) Form(name string) (store.Form, bool) {
	f, ok := s.Forms[name]
	return f, ok
}

// Names returns the form names in ascending order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.Forms))
	for name := range s.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
