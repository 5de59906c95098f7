package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middleware chain.
const (
	ctxKeyRequestID = "rid"
	ctxKeyLogger    = "logger"
	ctxKeyAuthUser  = "authUser"
)

// AuthUser is the caller identified by a verified bearer token.
type AuthUser struct {
	UserID int64
	Email  string
}

// getUser returns the authenticated user, or nil outside requireAuth.
func getUser(c *gin.Context) *AuthUser {
	u, _ := c.Get(ctxKeyAuthUser)
	au, _ := u.(*AuthUser)
	return au
}

// logFor returns the request-scoped logger, falling back to the default logger.
func logFor(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// requestIDMiddleware keeps the caller's X-Request-ID or generates one, and
// echoes it on the response.
func requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	c.Header("X-Request-ID", id)
	c.Set(ctxKeyRequestID, id)
	c.Set(ctxKeyLogger, slog.Default().With("rid", id))
	c.Next()
}

// recoveryMiddleware catches panics and returns a 500 response.
func recoveryMiddleware(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logFor(c).Error("panic recovered", "panic", rec, "path", c.Request.URL.Path)
			writeError(c, http.StatusInternalServerError, "internal server error")
		}
	}()
	c.Next()
}

// loggingMiddleware logs each request with method, path, status, and duration.
func loggingMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	logFor(c).Info("req",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"dur", time.Since(start).String(),
	)
}

// maxBytesMiddleware limits request body size to prevent abuse.
func maxBytesMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// requireAuth verifies the Bearer token and stores the AuthUser in the
// context before calling the next handler.
func (s *Server) requireAuth(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		writeError(c, http.StatusUnauthorized, "missing authorization header")
		return
	}
	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		writeError(c, http.StatusUnauthorized, "invalid authorization format")
		return
	}

	claims, err := s.tokens.Verify(strings.TrimSpace(authHeader[7:]))
	if err != nil {
		writeError(c, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	user, err := s.store.GetUserByID(claims.UserID)
	if err != nil {
		logFor(c).Error("auth: load user", "err", err)
		writeError(c, http.StatusInternalServerError, "failed to verify token")
		return
	}
	if user == nil {
		writeError(c, http.StatusUnauthorized, "account no longer exists")
		return
	}

	c.Set(ctxKeyAuthUser, &AuthUser{UserID: user.ID, Email: user.Email})
	c.Set(ctxKeyLogger, logFor(c).With("uid", user.ID))
	c.Next()
}
