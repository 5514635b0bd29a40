// Package api serves the validation engine over HTTP: single rules, rule
// chains, and stored form definitions validated as a whole.
package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/snapshot"
	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/TimurManjosov/govtag/internal/telemetry"
	"github.com/TimurManjosov/govtag/internal/webhook"
)

const requestTimeout = 5 * time.Second

type Server struct {
	store       store.Store
	engine      *engine.Evaluator
	validator   *form.Validator
	adminAPIKey string
	rateLimit   int
	webhooks    Notifier
	log         zerolog.Logger
}

// Notifier receives an event for every change to the form catalogue.
type Notifier interface {
	Dispatch(webhook.Event)
}

type nopNotifier struct{}

func (nopNotifier) Dispatch(webhook.Event) {}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client IP to n requests per minute. Zero
// disables the limit.
func WithRateLimit(n int) Option {
	return func(s *Server) { s.rateLimit = n }
}

// WithWebhooks sends form change events to n.
func WithWebhooks(n Notifier) Option {
	return func(s *Server) { s.webhooks = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer wires the HTTP layer to a form store, a rule evaluator and the
// form validator built on it.
func NewServer(st store.Store, ev *engine.Evaluator, v *form.Validator, adminKey string, opts ...Option) *Server {
	s := &Server{
		store:       st,
		engine:      ev,
		validator:   v,
		adminAPIKey: adminKey,
		webhooks:    nopNotifier{},
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)
	r.Use(telemetry.Middleware)
	if s.rateLimit > 0 {
		r.Use(httprate.Limit(s.rateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(RateLimitedError),
		))
	}

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// long-lived: no request timeout
	r.Get("/v1/forms/stream", s.handleStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/v1/rules", s.handleListRules)
		r.Post("/v1/rules/evaluate", s.handleEvaluateRule)
		r.Post("/v1/chains/evaluate", s.handleEvaluateChain)

		r.Get("/v1/forms", s.handleSnapshot)
		r.Get("/v1/forms/{name}", s.handleGetForm)
		r.Post("/v1/forms/{name}/validate", s.handleValidateForm)

		// admin (protected)
		r.Post("/v1/forms", s.authAdmin(s.handleUpsertForm))
		r.Delete("/v1/forms/{name}", s.authAdmin(s.handleDeleteForm))
	})

	return r
}

// RebuildSnapshot loads every form from the store and swaps the catalogue.
func (s *Server) RebuildSnapshot(ctx context.Context) error {
	forms, err := s.store.ListForms(ctx)
	if err != nil {
		return err
	}
	snap := snapshot.BuildFromForms(forms)
	snapshot.Update(snap)
	telemetry.SnapshotForms.Set(float64(len(snap.Forms)))
	s.log.Info().Int("forms", len(snap.Forms)).Str("etag", snap.ETag).Msg("catalogue rebuilt")
	return nil
}

func (s *Server) authAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if got == "" {
			UnauthorizedError(w, r, "Missing bearer token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminAPIKey)) != 1 {
			ForbiddenError(w, r, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requestLogger logs one zerolog event per request once it completes.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("elapsed", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
