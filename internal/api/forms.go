package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/snapshot"
	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/TimurManjosov/govtag/internal/validation"
	"github.com/TimurManjosov/govtag/internal/webhook"
)

type upsertResponse struct {
	OK   bool   `json:"ok"`
	ETag string `json:"etag"`
}

// handleSnapshot handles GET /v1/forms
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := snapshot.Load()
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == snap.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", snap.ETag)
	writeJSON(w, http.StatusOK, snap)
}

// handleGetForm handles GET /v1/forms/{name}
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, ok := snapshot.Load().Form(name)
	if !ok {
		NotFoundError(w, r, "Form '"+name+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// handleUpsertForm handles POST /v1/forms
func (s *Server) handleUpsertForm(w http.ResponseWriter, r *http.Request) {
	var req store.UpsertParams
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if result := validation.ValidateForm(req); !result.Valid {
		ValidationError(w, r, "Form definition is invalid", result.Errors)
		return
	}

	before, err := s.store.GetForm(r.Context(), req.Name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		InternalError(w, r, "Failed to load form definition")
		return
	}

	if err := s.store.UpsertForm(r.Context(), req); err != nil {
		s.log.Error().Err(err).Str("form", req.Name).Msg("upsert failed")
		InternalError(w, r, "Failed to store form definition")
		return
	}
	if err := s.RebuildSnapshot(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("catalogue rebuild failed")
		InternalError(w, r, "Failed to rebuild form catalogue")
		return
	}

	snap := snapshot.Load()
	if after, ok := snap.Form(req.Name); ok {
		s.webhooks.Dispatch(webhook.NewEventBuilder(r).
			ForForm(req.Name).
			WithStates(before, &after).
			WithETag(snap.ETag).
			Build())
	}

	writeJSON(w, http.StatusOK, upsertResponse{OK: true, ETag: snap.ETag})
}

// handleDeleteForm handles DELETE /v1/forms/{name}
func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	before, err := s.store.GetForm(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "Form '"+name+"' not found")
			return
		}
		InternalError(w, r, "Failed to load form definition")
		return
	}

	if err := s.store.DeleteForm(r.Context(), name); err != nil {
		s.log.Error().Err(err).Str("form", name).Msg("delete failed")
		InternalError(w, r, "Failed to delete form definition")
		return
	}
	if err := s.RebuildSnapshot(r.Context()); err != nil {
		InternalError(w, r, "Failed to rebuild form catalogue")
		return
	}
	s.webhooks.Dispatch(webhook.NewEventBuilder(r).
		ForForm(name).
		WithStates(before, nil).
		WithETag(snapshot.Load().ETag).
		Build())
	w.WriteHeader(http.StatusNoContent)
}

// handleValidateForm handles POST /v1/forms/{name}/validate
func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, ok := snapshot.Load().Form(name)
	if !ok {
		NotFoundError(w, r, "Form '"+name+"' not found")
		return
	}

	var in form.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	report, err := s.validator.Validate(r.Context(), def, in)
	if err != nil {
		RuleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
