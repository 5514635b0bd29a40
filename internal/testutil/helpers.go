// Package testutil wires an in-memory vtag API for tests of the packages
// that sit on top of it.
package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TimurManjosov/govtag/internal/api"
	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/store"
)

// NewTestServer creates an API server backed by an in-memory store, the
// default engine and English messages. The catalogue snapshot is rebuilt
// before it is returned.
func NewTestServer(t *testing.T, adminKey string, opts ...api.Option) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	ev := engine.Default()
	server := api.NewServer(memStore, ev, form.NewValidator(ev, form.WithLang(form.LangEN)), adminKey, opts...)
	if err := server.RebuildSnapshot(context.Background()); err != nil {
		t.Fatalf("rebuild snapshot: %v", err)
	}
	return server, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// SeedForms stores the given form definitions.
func SeedForms(ctx context.Context, st store.Store, forms []store.UpsertParams) error {
	for _, f := range forms {
		if err := st.UpsertForm(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// SignupForm is a small definition covering conditions, checkbox roles and
// custom messages.
func SignupForm() store.UpsertParams {
	return store.UpsertParams{
		Name:        "signup",
		Description: "Account creation",
		Engine:      "^1.0",
		Fields: []store.Field{
			{Name: "email", Rules: "required#email"},
			{Name: "age", Rules: "required#digits#min(18)", ErrorMessage: "You must be an adult"},
			{Name: "company", Rules: "required#minlength(2)", When: `{"==": [{"var": "account"}, "business"]}`},
			{Name: "terms", Rules: "required", Role: "checkbox"},
		},
	}
}
