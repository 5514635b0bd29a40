package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TimurManjosov/govtag/internal/api"
	"github.com/TimurManjosov/govtag/internal/config"
	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/logging"
	"github.com/TimurManjosov/govtag/internal/store"
	"github.com/TimurManjosov/govtag/internal/telemetry"
	"github.com/TimurManjosov/govtag/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New(os.Stderr, logging.FormatJSON, "error")
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logging.New(os.Stderr, logging.FormatFor(cfg.AppEnv), cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreType).Msg("store")
	}
	defer st.Close()

	telemetry.Init()

	ev := engine.Default(
		engine.WithLogger(log),
		engine.WithMetrics(telemetry.RuleMetrics{}),
	)
	lang, _ := form.ParseLang(cfg.MessagesLang)
	validator := form.NewValidator(ev,
		form.WithMaxConcurrency(cfg.FormMaxConcurrency),
		form.WithLang(lang),
		form.WithLogger(log),
	)

	endpoints := make([]webhook.Endpoint, 0, len(cfg.WebhookURLs))
	for _, u := range cfg.WebhookURLs {
		endpoints = append(endpoints, webhook.Endpoint{URL: u, Secret: cfg.WebhookSecret, MaxRetries: cfg.WebhookMaxRetries})
	}
	dispatcher := webhook.NewDispatcher(endpoints, webhook.WithLogger(log))
	dispatcher.Start()
	defer dispatcher.Close()

	// API server with deps
	srvAPI := api.NewServer(st, ev, validator, cfg.AdminAPIKey,
		api.WithRateLimit(cfg.RateLimitPerIP),
		api.WithWebhooks(dispatcher),
		api.WithLogger(log),
	)

	// initial snapshot
	if err := srvAPI.RebuildSnapshot(ctx); err != nil {
		log.Fatal().Err(err).Msg("load forms")
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreType).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	log.Info().Msg("stopped")
}
