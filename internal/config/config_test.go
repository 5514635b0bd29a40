package config

import (
	"errors"
	"os"
	"testing"
)

var configKeys = []string{
	"APP_ENV", "APP_HTTP_ADDR", "METRICS_ADDR", "STORE_TYPE", "DB_DSN",
	"ADMIN_API_KEY", "RATE_LIMIT_PER_IP", "LOG_LEVEL", "FORM_MAX_CONCURRENCY",
	"MESSAGES_LANG", "WEBHOOK_URLS", "WEBHOOK_SECRET", "WEBHOOK_MAX_RETRIES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		key := key
		if old, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "dev" {
		t.Errorf("Expected AppEnv='dev', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr=':8080', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("Expected MetricsAddr=':9090', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != "memory" {
		t.Errorf("Expected StoreType='memory', got '%s'", cfg.StoreType)
	}
	if cfg.AdminAPIKey != "admin-123" {
		t.Errorf("Expected AdminAPIKey='admin-123', got '%s'", cfg.AdminAPIKey)
	}
	if cfg.RateLimitPerIP != 100 {
		t.Errorf("Expected RateLimitPerIP=100, got %d", cfg.RateLimitPerIP)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel='info', got '%s'", cfg.LogLevel)
	}
	if cfg.FormMaxConcurrency != 8 {
		t.Errorf("Expected FormMaxConcurrency=8, got %d", cfg.FormMaxConcurrency)
	}
	if cfg.MessagesLang != "es" {
		t.Errorf("Expected MessagesLang='es', got '%s'", cfg.MessagesLang)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("APP_HTTP_ADDR", ":9999")
	t.Setenv("METRICS_ADDR", ":7777")
	t.Setenv("STORE_TYPE", "postgres")
	t.Setenv("ADMIN_API_KEY", "custom-key")
	t.Setenv("RATE_LIMIT_PER_IP", "200")
	t.Setenv("FORM_MAX_CONCURRENCY", "2")
	t.Setenv("MESSAGES_LANG", "en")
	t.Setenv("WEBHOOK_URLS", "https://a.example.com/hook, ,https://b.example.com/hook")
	t.Setenv("WEBHOOK_MAX_RETRIES", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "staging" {
		t.Errorf("Expected AppEnv='staging', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("Expected HTTPAddr=':9999', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":7777" {
		t.Errorf("Expected MetricsAddr=':7777', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != "postgres" {
		t.Errorf("Expected StoreType='postgres', got '%s'", cfg.StoreType)
	}
	if cfg.AdminAPIKey != "custom-key" {
		t.Errorf("Expected AdminAPIKey='custom-key', got '%s'", cfg.AdminAPIKey)
	}
	if cfg.RateLimitPerIP != 200 {
		t.Errorf("Expected RateLimitPerIP=200, got %d", cfg.RateLimitPerIP)
	}
	if cfg.FormMaxConcurrency != 2 {
		t.Errorf("Expected FormMaxConcurrency=2, got %d", cfg.FormMaxConcurrency)
	}
	if cfg.MessagesLang != "en" {
		t.Errorf("Expected MessagesLang='en', got '%s'", cfg.MessagesLang)
	}
	if len(cfg.WebhookURLs) != 2 || cfg.WebhookURLs[1] != "https://b.example.com/hook" {
		t.Errorf("Expected two webhook URLs, got %v", cfg.WebhookURLs)
	}
	if cfg.WebhookMaxRetries != 0 {
		t.Errorf("Expected WebhookMaxRetries=0, got %d", cfg.WebhookMaxRetries)
	}
}

func validConfig() *Config {
	return &Config{
		AppEnv:             "dev",
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		StoreType:          "memory",
		AdminAPIKey:        "admin-123",
		RateLimitPerIP:     100,
		LogLevel:           "info",
		FormMaxConcurrency: 8,
		MessagesLang:       "es",
		WebhookMaxRetries:  3,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown store", mutate: func(c *Config) { c.StoreType = "redis" }, wantField: "STORE_TYPE"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StoreType = "postgres" }, wantField: "DB_DSN"},
		{name: "postgres with dsn", mutate: func(c *Config) { c.StoreType = "postgres"; c.DatabaseDSN = "postgres://x" }},
		{name: "empty http addr", mutate: func(c *Config) { c.HTTPAddr = "" }, wantField: "APP_HTTP_ADDR"},
		{name: "empty metrics addr", mutate: func(c *Config) { c.MetricsAddr = "" }, wantField: "METRICS_ADDR"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerIP = 0 }, wantField: "RATE_LIMIT_PER_IP"},
		{name: "zero concurrency", mutate: func(c *Config) { c.FormMaxConcurrency = 0 }, wantField: "FORM_MAX_CONCURRENCY"},
		{name: "unknown language", mutate: func(c *Config) { c.MessagesLang = "fr" }, wantField: "MESSAGES_LANG"},
		{name: "empty admin key", mutate: func(c *Config) { c.AdminAPIKey = "" }, wantField: "ADMIN_API_KEY"},
		{name: "webhooks without secret", mutate: func(c *Config) { c.WebhookURLs = []string{"https://h"} }, wantField: "WEBHOOK_SECRET"},
		{name: "webhooks with secret", mutate: func(c *Config) { c.WebhookURLs = []string{"https://h"}; c.WebhookSecret = "s" }},
		{name: "negative retries", mutate: func(c *Config) { c.WebhookMaxRetries = -1 }, wantField: "WEBHOOK_MAX_RETRIES"},
		{name: "default key in prod", mutate: func(c *Config) { c.AppEnv = "prod" }, wantField: "ADMIN_API_KEY"},
		{name: "custom key in prod", mutate: func(c *Config) { c.AppEnv = "production"; c.AdminAPIKey = "s3cret" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}
