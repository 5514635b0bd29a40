// Package cli holds the vtag command line configuration file and output
// formatting shared by the commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	DefaultEnv   string               `yaml:"default_env"`
	Environments map[string]EnvConfig `yaml:"environments"`
}

// EnvConfig is one remote vtag server.
type EnvConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Environment variables that override the config file.
const (
	EnvConfigPath = "VTAG_CONFIG"
	EnvBaseURL    = "VTAG_BASE_URL"
	EnvAPIKey     = "VTAG_API_KEY"
)

// GetConfigPath returns $VTAG_CONFIG or ~/.vtag/config.yaml.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".vtag", "config.yaml"), nil
}

// LoadConfig loads the configuration file, or an empty configuration when
// there is none yet.
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{DefaultEnv: "dev", Environments: make(map[string]EnvConfig)}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Environments == nil {
		cfg.Environments = make(map[string]EnvConfig)
	}
	return &cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitConfig writes a starter configuration pointing at a local server.
// An existing file is left alone unless force is set.
func InitConfig(force bool) (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	cfg := &Config{
		DefaultEnv: "dev",
		Environments: map[string]EnvConfig{
			"dev": {BaseURL: "http://localhost:8080", APIKey: "admin-123"},
		},
	}
	return configPath, SaveConfig(cfg)
}

// ResolveEnv picks the remote server to talk to.
// Priority: command flags > environment variables > config file.
func ResolveEnv(envName, baseURLFlag, apiKeyFlag string) (*EnvConfig, error) {
	if baseURLFlag != "" {
		return &EnvConfig{BaseURL: baseURLFlag, APIKey: firstNonEmpty(apiKeyFlag, os.Getenv(EnvAPIKey))}, nil
	}
	if envURL := os.Getenv(EnvBaseURL); envURL != "" {
		return &EnvConfig{BaseURL: envURL, APIKey: firstNonEmpty(apiKeyFlag, os.Getenv(EnvAPIKey))}, nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if envName == "" {
		envName = cfg.DefaultEnv
	}
	envCfg, ok := cfg.Environments[envName]
	if !ok {
		return nil, fmt.Errorf("environment '%s' not found in config (run 'vtag config init' or pass --base-url)", envName)
	}
	if envCfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url must be configured for environment '%s'", envName)
	}
	envCfg.APIKey = firstNonEmpty(apiKeyFlag, os.Getenv(EnvAPIKey), envCfg.APIKey)
	return &envCfg, nil
}

// Get reads a dotted key: "default_env" or "environments.<env>.base_url|api_key".
func (c *Config) Get(key string) (string, error) {
	if key == "default_env" {
		return c.DefaultEnv, nil
	}
	env, attr, err := splitEnvKey(key)
	if err != nil {
		return "", err
	}
	envCfg, ok := c.Environments[env]
	if !ok {
		return "", fmt.Errorf("environment '%s' not found in config", env)
	}
	if attr == "base_url" {
		return envCfg.BaseURL, nil
	}
	return envCfg.APIKey, nil
}

// Set writes a dotted key, creating the environment when needed.
func (c *Config) Set(key, value string) error {
	if key == "default_env" {
		c.DefaultEnv = value
		return nil
	}
	env, attr, err := splitEnvKey(key)
	if err != nil {
		return err
	}
	if c.Environments == nil {
		c.Environments = make(map[string]EnvConfig)
	}
	envCfg := c.Environments[env]
	if attr == "base_url" {
		envCfg.BaseURL = value
	} else {
		envCfg.APIKey = value
	}
	c.Environments[env] = envCfg
	return nil
}

// Keys lists every settable key present in c, sorted.
func (c *Config) Keys() []string {
	keys := []string{"default_env"}
	envs := make([]string, 0, len(c.Environments))
	for env := range c.Environments {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	for _, env := range envs {
		keys = append(keys, "environments."+env+".base_url", "environments."+env+".api_key")
	}
	return keys
}

func splitEnvKey(key string) (env, attr string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "environments" || parts[1] == "" ||
		(parts[2] != "base_url" && parts[2] != "api_key") {
		return "", "", fmt.Errorf("unknown config key %q (want default_env or environments.<env>.base_url|api_key)", key)
	}
	return parts[1], parts[2], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
