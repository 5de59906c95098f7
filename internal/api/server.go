package api

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/serverdb"
)

// indexPage announces where the API lives so clients configured with only
// an origin can find it.
var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="api-base-url" content="{{.BasePath}}">
<title>clubdash</title>
</head>
<body>
<p>Club API is served under <code>{{.BasePath}}</code>.</p>
</body>
</html>
`))

// Server is the HTTP API server backing the club dashboard.
type Server struct {
	config   Config
	http     *http.Server
	store    *serverdb.ServerDB
	tokens   *Tokens
	hashCost int
	ln       net.Listener
}

// NewServer creates a new Server with the given config and store.
func NewServer(cfg Config, store *serverdb.ServerDB) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/api"
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")

	s := &Server{
		config:   cfg,
		store:    store,
		tokens:   NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		hashCost: bcrypt.DefaultCost,
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start begins listening for HTTP requests (non-blocking).
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound address once Start has run.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.config.ListenAddr
	}
	return s.ln.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// routes builds the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	r := gin.New()
	r.SetHTMLTemplate(indexPage)
	r.Use(recoveryMiddleware, requestIDMiddleware, loggingMiddleware, maxBytesMiddleware(1<<20))

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)

	base := r.Group(s.config.BasePath)
	base.POST("/auth/login", s.handleLogin)
	base.POST("/auth/register", s.handleRegister)

	authed := base.Group("", s.requireAuth)

	// Directory
	authed.GET("/users", s.handleListUsers)
	authed.GET("/users/:id/friend-requests/sent", s.handleSentRequests)
	authed.GET("/users/:id/friend-requests/received", s.handleReceivedRequests)
	authed.GET("/users/:id/friends", s.handleListFriends)

	// Friend requests
	authed.POST("/friend-requests", s.handleSendRequest)
	authed.PUT("/friend-requests/:id/accept", s.answerRequest(true))
	authed.PUT("/friend-requests/:id/decline", s.answerRequest(false))
	authed.DELETE("/friend-requests/:id", s.handleCancelRequest)
	authed.DELETE("/profile/friends/:id", s.handleRemoveFriend)

	// Club entities
	entityRoutes[models.Game, models.GamePayload]{table: s.store.Games}.register(authed, "/games")
	entityRoutes[models.Team, models.TeamPayload]{table: s.store.Teams, check: s.gameExists}.register(authed, "/teams")
	entityRoutes[models.Tournament, models.TournamentPayload]{table: s.store.Tournaments}.register(authed, "/tournaments")
	entityRoutes[models.News, models.NewsPayload]{table: s.store.News, extra: s.newsAuthor}.register(authed, "/news")

	// Comments
	authed.GET("/news/:id/comments", s.handleListComments)
	authed.POST("/comments/", s.handleCreateComment)
	authed.PUT("/comments/:id", s.handleUpdateComment)
	authed.DELETE("/comments/:id", s.handleDeleteComment)

	return r
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{"BasePath": s.config.BasePath})
}

// handleHealth returns a health check response, pinging the server DB.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "detail": "db unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "schema": s.store.SchemaVersion()})
}
