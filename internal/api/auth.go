package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/marcus/clubdash/internal/models"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID.
func (t *Tokens) Issue(userID int64, email string) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and expiry and returns the claims.
func (t *Tokens) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// handleLogin exchanges email and password for a token and the profile.
func (s *Server) handleLogin(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := creds.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.GetUserByEmail(creds.Email)
	if err != nil {
		logFor(c).Error("login: lookup", "err", err)
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		writeError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		logFor(c).Error("login: issue token", "err", err)
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})
}

// handleRegister creates an account. It does not log the caller in.
func (s *Server) handleRegister(c *gin.Context) {
	if !s.config.AllowSignup {
		writeError(c, http.StatusForbidden, "registration is disabled")
		return
	}

	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := reg.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		writeError(c, http.StatusBadRequest, "password cannot be used")
		return
	}

	user, err := s.store.CreateUser(reg.FirstName, reg.LastName, reg.Email, string(hash))
	if err != nil {
		writeStoreError(c, "register", err)
		return
	}
	logFor(c).Info("user registered", "uid", user.ID)
	c.JSON(http.StatusCreated, user.Public())
}
