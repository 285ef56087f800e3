// Package config loads application settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// ErrMissingSpotifyCredentials is returned when enrichment is enabled without credentials.
var ErrMissingSpotifyCredentials = errors.New("spotify enrichment enabled but SPOTIFY_ID or SPOTIFY_SECRET is not set")

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Insights  InsightsConfig  `koanf:"insights"`
	Spotify   SpotifyConfig   `koanf:"spotify"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `koanf:"addr"`
	UploadMaxBytes int64         `koanf:"upload_max_bytes"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RecommendConfig holds ranker settings.
type RecommendConfig struct {
	ShufflePool int `koanf:"shuffle_pool"`
}

// InsightsConfig holds vibe grouping settings.
type InsightsConfig struct {
	Groups       int `koanf:"groups"`
	MinGroupSize int `koanf:"min_group_size"`
}

// SpotifyConfig holds the optional preview enrichment settings.
type SpotifyConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Market       string `koanf:"market"`
	MaxLookups   int    `koanf:"max_lookups"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			UploadMaxBytes: 2 << 20, // 2MB
			SessionTTL:     24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			ShufflePool: 50,
		},
		Insights: InsightsConfig{
			Groups:       3,
			MinGroupSize: 2,
		},
		Spotify: SpotifyConfig{
			Enabled:    false,
			MaxLookups: 50,
		},
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"addr":             "server.addr",
	"upload_max_bytes": "server.upload_max_bytes",
	"session_ttl":      "server.session_ttl",
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"shuffle_pool":     "recommend.shuffle_pool",
	"insight_groups":   "insights.groups",
	"spotify_enrich":   "spotify.enabled",
	"spotify_id":       "spotify.client_id",
	"spotify_secret":   "spotify.client_secret",
	"spotify_market":   "spotify.market",
}

// envTransformFunc maps known environment variables to config keys.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.UploadMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.upload_max_bytes must be positive, got %d", c.Server.UploadMaxBytes))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl must be positive, got %s", c.Server.SessionTTL))
	}
	if c.Recommend.ShufflePool <= 0 {
		errs = append(errs, fmt.Errorf("recommend.shuffle_pool must be positive, got %d", c.Recommend.ShufflePool))
	}
	if c.Insights.Groups <= 0 {
		errs = append(errs, fmt.Errorf("insights.groups must be positive, got %d", c.Insights.Groups))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	if c.Spotify.Enabled && (c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "") {
		errs = append(errs, ErrMissingSpotifyCredentials)
	}

	return errors.Join(errs...)
}
