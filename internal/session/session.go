// Package session holds the authenticated identity (bearer token + profile)
// and broadcasts changes to every view sharing the same storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/clubdash/internal/models"
)

// Storage keys
const (
	keyToken = "token"
	keyUser  = "user"
)

// ErrNoAuthenticator is returned by Login/Register when the store was built
// without a way to reach the auth endpoints.
var ErrNoAuthenticator = errors.New("no authenticator configured")

// Session is a snapshot of the stored authentication state.
type Session struct {
	Token string
	User  *models.Profile
}

// Authenticated reports whether the snapshot holds a usable session.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Authenticator reaches the backend auth endpoints.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, reg models.Registration) error
}

// Store is the single source of truth for the session. Build one at startup
// and hand it to every component that needs the token or the viewer.
type Store struct {
	// Auth performs login/registration. It is usually the API client, which
	// itself reads the token from this store, so it is set after construction.
	Auth Authenticator

	storage Storage
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	subs   map[int]func(Session)
	nextID int
}

// New wraps storage in a Store.
func New(storage Storage) *Store {
	return &Store{
		storage: storage,
		log:     slog.Default(),
		now:     time.Now,
		subs:    make(map[int]func(Session)),
	}
}

// Open opens (or creates) the sqlite session file at path.
func Open(path string) (*Store, error) {
	storage, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return New(storage), nil
}

// WithLogger sets the logger used for storage failures.
func (s *Store) WithLogger(l *slog.Logger) *Store {
	if l != nil {
		s.log = l
	}
	return s
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.storage.Close()
}

// Current reads the session from storage. A record holding only one of
// token/profile, or an expired token, reads as no session.
func (s *Store) Current() Session {
	token, ok, err := s.storage.Get(keyToken)
	if err != nil {
		s.log.Debug("session: read token", "err", err)
		return Session{}
	}
	if !ok || token == "" || tokenExpired(token, s.now()) {
		return Session{}
	}

	user, err := s.readUser()
	if err != nil {
		s.log.Debug("session: read user", "err", err)
		return Session{}
	}
	if user == nil {
		return Session{}
	}
	return Session{Token: token, User: user}
}

// Token returns the bearer token, or "" when not authenticated.
func (s *Store) Token() string {
	return s.Current().Token
}

// User returns the authenticated profile, or nil.
func (s *Store) User() *models.Profile {
	return s.Current().User
}

// ViewerID returns the authenticated user's id.
func (s *Store) ViewerID() (int64, bool) {
	u := s.User()
	if u == nil {
		return 0, false
	}
	return u.ID, true
}

// IsAuthenticated reports whether a valid token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// SetToken stores the token; an empty token removes it.
func (s *Store) SetToken(token string) error {
	var err error
	if token == "" {
		err = s.storage.Delete(keyToken)
	} else {
		err = s.storage.Put(map[string]string{keyToken: token})
	}
	if err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.publish()
	return nil
}

// SetUser stores the profile; nil removes it.
func (s *Store) SetUser(p *models.Profile) error {
	if p == nil {
		if err := s.storage.Delete(keyUser); err != nil {
			return fmt.Errorf("write user: %w", err)
		}
		s.publish()
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.storage.Put(map[string]string{keyUser: string(data)}); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	s.publish()
	return nil
}

// Login authenticates and, on success, stores token and profile together.
// Transport and server errors are returned unchanged.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (*models.Profile, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if s.Auth == nil {
		return nil, ErrNoAuthenticator
	}

	resp, err := s.Auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	profile := resp.Profile()
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	if err := s.storage.Put(map[string]string{keyToken: resp.Token, keyUser: string(data)}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.publish()
	return profile, nil
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, reg models.Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	if s.Auth == nil {
		return ErrNoAuthenticator
	}
	return s.Auth.Register(ctx, reg)
}

// Logout clears token and profile. No network call is made.
func (s *Store) Logout() error {
	if err := s.storage.Delete(keyToken, keyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.publish()
	return nil
}

// Subscribe registers fn to receive the session after every change,
// including changes committed by other processes while Watch is running.
// The returned func unregisters it.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Watch polls storage for commits made through other handles and publishes
// the re-read session when one is seen. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, interval time.Duration) error {
	last, err := s.storage.Version()
	if err != nil {
		return fmt.Errorf("read storage version: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v, err := s.storage.Version()
			if err != nil {
				s.log.Debug("session: watch", "err", err)
				continue
			}
			if v != last {
				last = v
				s.publish()
			}
		}
	}
}

func (s *Store) publish() {
	current := s.Current()

	s.mu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(current)
	}
}

func (s *Store) readUser() (*models.Profile, error) {
	raw, ok, err := s.storage.Get(keyUser)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &p, nil
}
