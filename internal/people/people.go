// Package people builds the viewer's view of the member directory: who can be
// added, who has a pending request, who is already a friend.
package people

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/marcus/clubdash/internal/models"
)

// Users lists the member directory.
type Users interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// SentRequests lists the requests a user has sent.
type SentRequests interface {
	SentFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error)
}

// Friends lists a user's friendships.
type Friends interface {
	Friends(ctx context.Context, userID int64) ([]models.Friend, error)
}

// RequestSender creates friend requests.
type RequestSender interface {
	SendFriendRequest(ctx context.Context, p models.FriendRequestPayload) (*models.FriendRequest, error)
}

// Backend is everything a Directory needs from the API.
type Backend interface {
	Users
	SentRequests
	Friends
	RequestSender
}

// Viewer resolves the signed-in user.
type Viewer interface {
	ViewerID() (int64, bool)
}

// Notifier receives user-visible failure messages.
type Notifier func(msg string)

// IDSet is a set of user ids.
type IDSet map[int64]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Directory holds the candidate list and the pending/friend sets derived
// from one snapshot of the three sources.
type Directory struct {
	api    Backend
	viewer Viewer
	notify Notifier
	log    *slog.Logger

	mu         sync.RWMutex
	candidates []models.User
	pending    IDSet
	friends    IDSet
	loading    bool
	err        error
	closed     bool
}

// New creates an empty Directory.
func New(api Backend, viewer Viewer) *Directory {
	return &Directory{
		api:     api,
		viewer:  viewer,
		notify:  func(string) {},
		log:     slog.Default(),
		pending: IDSet{},
		friends: IDSet{},
	}
}

// WithNotifier sets where failed explicit actions are reported.
func (d *Directory) WithNotifier(n Notifier) *Directory {
	if n != nil {
		d.notify = n
	}
	return d
}

// WithLogger sets the logger used for failures.
func (d *Directory) WithLogger(l *slog.Logger) *Directory {
	if l != nil {
		d.log = l
	}
	return d
}

// Load fetches users, sent requests and friends concurrently and rebuilds
// every derived set. Without a viewer nothing is fetched. If any fetch fails
// the previous state is kept.
func (d *Directory) Load(ctx context.Context) {
	viewerID, ok := d.viewer.ViewerID()
	if !ok {
		d.mu.Lock()
		d.candidates = nil
		d.pending = IDSet{}
		d.friends = IDSet{}
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.loading = true
	d.mu.Unlock()

	var (
		users    []models.User
		sent     []models.FriendRequest
		friendly []models.Friend
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = d.api.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		sent, err = d.api.SentFriendRequests(gctx, viewerID)
		if err != nil {
			return fmt.Errorf("sent requests: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		friendly, err = d.api.Friends(gctx, viewerID)
		if err != nil {
			return fmt.Errorf("friends: %w", err)
		}
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if d.closed || ctx.Err() != nil {
		return
	}
	if err != nil {
		d.err = err
		d.log.Warn("people: load", "err", err)
		return
	}

	candidates := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != viewerID {
			candidates = append(candidates, u)
		}
	}
	pending := IDSet{}
	for _, r := range sent {
		if r.Status == models.RequestPending {
			pending[r.ReceiverID] = struct{}{}
		}
	}
	friends := IDSet{}
	for _, f := range friendly {
		friends[f.FriendID] = struct{}{}
	}

	d.candidates = candidates
	d.pending = pending
	d.friends = friends
	d.err = nil
}

// Candidates returns every directory user except the viewer.
func (d *Directory) Candidates() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.User, len(d.candidates))
	copy(out, d.candidates)
	return out
}

// Pending returns the receiver ids of the viewer's pending requests.
func (d *Directory) Pending() IDSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pending.clone()
}

// Friends returns the viewer's friend ids.
func (d *Directory) Friends() IDSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.friends.clone()
}

// Label returns the viewer's relationship to id.
func (d *Directory) Label(id int64) models.Relationship {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return LabelFor(d.friends, d.pending, id)
}

// LabelFor derives the relationship for id. A friendship wins over a stale
// pending request.
func LabelFor(friends, pending IDSet, id int64) models.Relationship {
	switch {
	case friends.Has(id):
		return models.RelationFriend
	case pending.Has(id):
		return models.RelationPending
	default:
		return models.RelationAddable
	}
}

// Search filters the candidates by query.
func (d *Directory) Search(query string) []models.User {
	return Filter(d.Candidates(), query)
}

// Filter returns the users whose first name, last name, full name or email
// contains query, ignoring case. An empty query matches everyone. users is
// not modified.
func Filter(users []models.User, query string) []models.User {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if q == "" || matches(u, q) {
			out = append(out, u)
		}
	}
	return out
}

func matches(u models.User, q string) bool {
	for _, field := range []string{u.FirstName, u.LastName, u.FirstName + " " + u.LastName, u.Email} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SendFriendRequest asks candidateID to be friends. On success the candidate
// is marked pending locally without a reload.
func (d *Directory) SendFriendRequest(ctx context.Context, candidateID int64) error {
	viewerID, ok := d.viewer.ViewerID()
	if !ok {
		err := fmt.Errorf("send friend request: %w", ErrNoViewer)
		d.notify("Sign in to add friends")
		return err
	}

	_, err := d.api.SendFriendRequest(ctx, models.FriendRequestPayload{
		SenderID:   viewerID,
		ReceiverID: candidateID,
	})
	if err != nil {
		d.log.Warn("people: send request", "to", candidateID, "err", err)
		d.notify("Failed to send friend request")
		return err
	}

	d.mu.Lock()
	if !d.closed {
		d.pending[candidateID] = struct{}{}
	}
	d.mu.Unlock()
	return nil
}

// Loading reports whether a load is in flight.
func (d *Directory) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

// Err returns the last load failure.
func (d *Directory) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// Close stops the directory from applying further results.
func (d *Directory) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}
