package api

import (
	"os"
	"strings"
	"time"
)

// Config holds the server configuration, loaded from environment variables.
type Config struct {
	ListenAddr      string
	ServerDBPath    string
	ShutdownTimeout time.Duration
	AllowSignup     bool
	JWTSecret       string
	TokenTTL        time.Duration
	BasePath        string // prefix of every API route, announced on the index page
	LogFormat       string // "json" (default) or "text"
	LogLevel        string // "debug", "info" (default), "warn", "error"
}

// LoadConfig reads configuration from environment variables with sensible defaults.
func LoadConfig() Config {
	cfg := Config{
		ListenAddr:      ":8080",
		ServerDBPath:    "./data/club.db",
		ShutdownTimeout: 30 * time.Second,
		AllowSignup:     true,
		JWTSecret:       "dev-secret-change-me",
		TokenTTL:        24 * time.Hour,
		BasePath:        "/api",
		LogFormat:       "json",
		LogLevel:        "info",
	}

	if v := os.Getenv("CLUBAPI_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("CLUBAPI_DB_PATH"); v != "" {
		cfg.ServerDBPath = v
	}
	if v := os.Getenv("CLUBAPI_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("CLUBAPI_ALLOW_SIGNUP"); v == "false" || v == "0" {
		cfg.AllowSignup = false
	}
	if v := os.Getenv("CLUBAPI_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("CLUBAPI_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("CLUBAPI_BASE_PATH"); v != "" {
		cfg.BasePath = "/" + strings.Trim(v, "/")
	}
	if v := os.Getenv("CLUBAPI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CLUBAPI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
