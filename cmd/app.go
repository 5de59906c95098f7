package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/client"
	"github.com/marcus/clubdash/internal/collection"
	"github.com/marcus/clubdash/internal/comments"
	"github.com/marcus/clubdash/internal/config"
	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
	"github.com/marcus/clubdash/internal/people"
	"github.com/marcus/clubdash/internal/session"
	"github.com/marcus/clubdash/internal/social"
)

// errNotSignedIn is returned by commands that need a session.
var errNotSignedIn = errors.New("not signed in")

// app is the per-invocation wiring: config, session and API client.
type app struct {
	cfg    *config.Config
	store  *session.Store
	client *client.Client
	log    *slog.Logger
}

// openSession loads config, configures logging and opens the session store.
// It makes no network calls.
func openSession() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := setupLogging(cfg)

	store, err := session.Open(cfg.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	store.WithLogger(logger)

	return &app{cfg: cfg, store: store, log: logger}, nil
}

// openApp opens the session and builds the API client, resolving the base
// URL from the origin when none is configured.
func openApp(ctx context.Context) (*app, error) {
	a, err := openSession()
	if err != nil {
		return nil, err
	}

	base, err := client.ResolveBaseURL(ctx, &http.Client{Timeout: a.cfg.RequestTimeout}, a.cfg.APIURL, a.cfg.Origin)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.log.Debug("app: api base", "url", base)

	a.client = client.New(base, a.store, a.cfg.RequestTimeout)
	a.store.Auth = a.client
	return a, nil
}

// Close releases the session store.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Debug("app: close session", "err", err)
	}
}

// viewer returns the signed-in profile or reports that there is none.
func (a *app) viewer() (int64, error) {
	id, ok := a.store.ViewerID()
	if !ok {
		output.Error("not signed in; run 'clubdash auth login'")
		return 0, errNotSignedIn
	}
	return id, nil
}

// setupLogging installs the default slog handler from config.
func setupLogging(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	default:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// withApp adapts a RunE that needs the app.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

// withSession adapts a RunE that only touches the local session. a.client is
// nil inside fn.
func withSession(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openSession()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

// reportErr prints err the way users should see it and returns it.
func reportErr(action string, err error) error {
	if jsonOutput(rootCmd) {
		output.JSONError(errorCode(err), client.Message(err))
		return err
	}
	output.Error("%s: %s", action, client.Message(err))
	return err
}

func errorCode(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotFound):
		return output.ErrCodeNotFound
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		return output.ErrCodeUnauthorized
	case errors.Is(err, errNotSignedIn), errors.Is(err, people.ErrNoViewer), errors.Is(err, social.ErrNoViewer):
		return output.ErrCodeNotSignedIn
	case errors.Is(err, models.ErrRequired), errors.Is(err, comments.ErrEmptyComment), errors.Is(err, collection.ErrUnsupported):
		return output.ErrCodeInvalidInput
	case errors.As(err, &apiErr):
		return output.ErrCodeInvalidInput
	}
	return output.ErrCodeNetworkError
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	if !v && cmd != rootCmd {
		v, _ = rootCmd.PersistentFlags().GetBool("json")
	}
	return v
}

func skipConfirm(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("yes")
	if !v {
		v, _ = rootCmd.PersistentFlags().GetBool("yes")
	}
	return v
}
