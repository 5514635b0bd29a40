package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a form definition does not exist.
var ErrNotFound = errors.New("form not found")

// Store defines the interface for form definition persistence.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// ListForms retrieves every form definition, ordered by name.
	// Returns an empty slice if there are none.
	ListForms(ctx context.Context) ([]Form, error)

	// GetForm retrieves a single form by name.
	// Returns ErrNotFound if the form does not exist.
	GetForm(ctx context.Context, name string) (*Form, error)

	// UpsertForm creates or replaces a form definition.
	UpsertForm(ctx context.Context, params UpsertParams) error

	// DeleteForm removes a form by name.
	// Returns no error if the form doesn't exist (idempotent).
	DeleteForm(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}

// Field is one validated input of a form.
type Field struct {
	Name string `json:"name" yaml:"name"`
	// Rules is the '#' separated rule chain, e.g. "required#email".
	Rules string `json:"rules" yaml:"rules"`
	// Role is the control type: "", "other", "checkbox", "radio" or "select".
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
	// When is an optional JSON Logic condition; the field is only validated
	// when it holds.
	When         string `json:"when,omitempty" yaml:"when,omitempty"`
	OKMessage    string `json:"okMessage,omitempty" yaml:"okMessage,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// Form is a named set of fields validated together.
type Form struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Engine is an optional semver constraint on the engine version,
	// e.g. "^1.0".
	Engine    string    `json:"engine,omitempty" yaml:"engine,omitempty"`
	Fields    []Field   `json:"fields" yaml:"fields"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

// UpsertParams contains the parameters for upserting a form.
type UpsertParams struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Engine      string  `json:"engine,omitempty" yaml:"engine,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Params returns the upsert parameters that recreate f.
func (f Form) Params() UpsertParams {
	return UpsertParams{
		Name:        f.Name,
		Description: f.Description,
		Engine:      f.Engine,
		Fields:      f.Fields,
	}
}

func ensureFieldsInitialized(fields []Field) []Field {
	if fields == nil {
		return []Field{}
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}
