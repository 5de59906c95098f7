// Package config loads clubdash client settings.
//
// Priority for every field: CLUBDASH_* env > .env in the working directory >
// ~/.config/clubdash/config.json > built-in default.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	configFile  = "config.json"
	sessionFile = "session.db"

	defaultOrigin         = "http://localhost:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultWatchInterval  = 2 * time.Second
)

// Config holds the client configuration.
type Config struct {
	APIURL         string        `json:"api_url,omitempty"` // explicit API base; skips discovery
	Origin         string        `json:"origin,omitempty"`  // site origin used for base-url discovery
	SessionPath    string        `json:"session_path,omitempty"`
	LogLevel       string        `json:"log_level,omitempty"`  // debug, info, warn, error (default)
	LogFormat      string        `json:"log_format,omitempty"` // text (default) or json
	RequestTimeout time.Duration `json:"-"`
	WatchInterval  time.Duration `json:"-"`

	// Duration strings as stored in config.json
	RequestTimeoutRaw string `json:"request_timeout,omitempty"`
	WatchIntervalRaw  string `json:"watch_interval,omitempty"`
}

// Dir returns ~/.config/clubdash, creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "clubdash")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load builds the effective configuration.
func Load() (*Config, error) {
	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg, err := readFile(filepath.Join(dir, configFile))
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)
	applyDefaults(cfg, dir)
	return cfg, nil
}

// Save writes the persisted fields to ~/.config/clubdash/config.json using
// an atomic temp file + rename.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	out := *cfg
	if out.RequestTimeout > 0 {
		out.RequestTimeoutRaw = out.RequestTimeout.String()
	}
	if out.WatchInterval > 0 {
		out.WatchIntervalRaw = out.WatchInterval.String()
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, configFile))
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if d, err := time.ParseDuration(cfg.RequestTimeoutRaw); err == nil {
		cfg.RequestTimeout = d
	}
	if d, err := time.ParseDuration(cfg.WatchIntervalRaw); err == nil {
		cfg.WatchInterval = d
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CLUBDASH_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("CLUBDASH_ORIGIN"); v != "" {
		cfg.Origin = v
	}
	if v := os.Getenv("CLUBDASH_SESSION_PATH"); v != "" {
		cfg.SessionPath = v
	}
	if v := os.Getenv("CLUBDASH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CLUBDASH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CLUBDASH_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("CLUBDASH_WATCH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.WatchInterval = d
		}
	}
}

func applyDefaults(cfg *Config, dir string) {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.Origin = strings.TrimRight(cfg.Origin, "/")
	if cfg.APIURL == "" && cfg.Origin == "" {
		cfg.Origin = defaultOrigin
	}
	if cfg.SessionPath == "" {
		cfg.SessionPath = filepath.Join(dir, sessionFile)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = defaultWatchInterval
	}
}

// LoadFile returns only what config.json holds, without env or defaults.
// Use it to edit and Save the file.
func LoadFile() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return readFile(filepath.Join(dir, configFile))
}

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"api_url", "origin", "session_path", "log_level", "log_format", "request_timeout", "watch_interval"}

// Get returns the value of key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "origin":
		return c.Origin, nil
	case "session_path":
		return c.SessionPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "request_timeout":
		return durationString(c.RequestTimeout), nil
	case "watch_interval":
		return durationString(c.WatchInterval), nil
	}
	return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
}

// Set assigns value to key. An empty value clears the setting.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		c.APIURL = strings.TrimRight(value, "/")
	case "origin":
		c.Origin = strings.TrimRight(value, "/")
	case "session_path":
		c.SessionPath = value
	case "log_level":
		switch strings.ToLower(value) {
		case "", "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level %q (use debug, info, warn or error)", value)
		}
	case "log_format":
		switch strings.ToLower(value) {
		case "", "text", "json":
			c.LogFormat = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_format %q (use text or json)", value)
		}
	case "request_timeout", "watch_interval":
		var d time.Duration
		if value != "" {
			var err error
			if d, err = time.ParseDuration(value); err != nil || d <= 0 {
				return fmt.Errorf("invalid %s %q: want a positive duration like 30s", key, value)
			}
		}
		if key == "request_timeout" {
			c.RequestTimeout, c.RequestTimeoutRaw = d, ""
		} else {
			c.WatchInterval, c.WatchIntervalRaw = d, ""
		}
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func durationString(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}
