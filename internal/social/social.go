// Package social holds the viewer's friend requests and friendships: the
// inbox of received requests, the outbox of sent ones, and the friend list.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/clubdash/internal/collection"
	"github.com/marcus/clubdash/internal/models"
)

// ErrNoViewer is returned when an action needs a signed-in user.
var ErrNoViewer = errors.New("no signed-in user")

// Viewer resolves the signed-in user.
type Viewer interface {
	ViewerID() (int64, bool)
}

// InboxAPI is the received-requests part of the backend.
type InboxAPI interface {
	ReceivedFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, id int64) error
	DeclineFriendRequest(ctx context.Context, id int64) error
}

// OutboxAPI is the sent-requests part of the backend.
type OutboxAPI interface {
	SentFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error)
	CancelFriendRequest(ctx context.Context, id int64) error
}

// FriendsAPI is the friendships part of the backend.
type FriendsAPI interface {
	Friends(ctx context.Context, userID int64) ([]models.Friend, error)
	RemoveFriend(ctx context.Context, friendID int64) error
}

func viewerID(v Viewer) (int64, error) {
	id, ok := v.ViewerID()
	if !ok {
		return 0, ErrNoViewer
	}
	return id, nil
}

// --- Inbox ---

type inboxSource struct {
	api    InboxAPI
	viewer Viewer
}

func (s inboxSource) List(ctx context.Context) ([]models.FriendRequest, error) {
	id, err := viewerID(s.viewer)
	if err != nil {
		return nil, err
	}
	return s.api.ReceivedFriendRequests(ctx, id)
}

// Inbox lists requests addressed to the viewer.
type Inbox struct {
	*collection.Collection[models.FriendRequest, struct{}]
	api InboxAPI
	log *slog.Logger
}

// NewInbox creates the viewer's inbox.
func NewInbox(api InboxAPI, viewer Viewer) *Inbox {
	return &Inbox{
		Collection: collection.New[models.FriendRequest, struct{}]("inbox", inboxSource{api: api, viewer: viewer}),
		api:        api,
		log:        slog.Default(),
	}
}

// WithLogger sets the logger used for failures.
func (b *Inbox) WithLogger(l *slog.Logger) *Inbox {
	if l != nil {
		b.log = l
		b.Collection.WithLogger(l)
	}
	return b
}

// Accept accepts request id and reloads.
func (b *Inbox) Accept(ctx context.Context, id int64) error {
	if err := b.api.AcceptFriendRequest(ctx, id); err != nil {
		b.log.Warn("inbox: accept", "id", id, "err", err)
		return fmt.Errorf("accept request %d: %w", id, err)
	}
	b.Load(ctx)
	return nil
}

// Decline rejects request id and reloads.
func (b *Inbox) Decline(ctx context.Context, id int64) error {
	if err := b.api.DeclineFriendRequest(ctx, id); err != nil {
		b.log.Warn("inbox: decline", "id", id, "err", err)
		return fmt.Errorf("decline request %d: %w", id, err)
	}
	b.Load(ctx)
	return nil
}

// Pending returns the requests still awaiting an answer.
func (b *Inbox) Pending() []models.FriendRequest {
	var out []models.FriendRequest
	for _, r := range b.Items() {
		if r.Status == models.RequestPending {
			out = append(out, r)
		}
	}
	return out
}

// --- Outbox ---

type outboxSource struct {
	api    OutboxAPI
	viewer Viewer
}

func (s outboxSource) List(ctx context.Context) ([]models.FriendRequest, error) {
	id, err := viewerID(s.viewer)
	if err != nil {
		return nil, err
	}
	return s.api.SentFriendRequests(ctx, id)
}

func (s outboxSource) Delete(ctx context.Context, id int64) error {
	return s.api.CancelFriendRequest(ctx, id)
}

// Outbox lists requests the viewer sent. Cancelling goes through the staged
// delete of the embedded collection.
type Outbox struct {
	*collection.Collection[models.FriendRequest, struct{}]
}

// NewOutbox creates the viewer's outbox.
func NewOutbox(api OutboxAPI, viewer Viewer) *Outbox {
	return &Outbox{
		Collection: collection.New[models.FriendRequest, struct{}]("outbox", outboxSource{api: api, viewer: viewer}),
	}
}

// Cancel stages and deletes request id.
func (b *Outbox) Cancel(ctx context.Context, id int64) error {
	b.StageDelete(id)
	return b.Delete(ctx)
}

// --- Friends ---

type friendSource struct {
	api    FriendsAPI
	viewer Viewer
}

func (s friendSource) List(ctx context.Context) ([]models.Friend, error) {
	id, err := viewerID(s.viewer)
	if err != nil {
		return nil, err
	}
	return s.api.Friends(ctx, id)
}

func (s friendSource) Delete(ctx context.Context, friendID int64) error {
	return s.api.RemoveFriend(ctx, friendID)
}

// FriendList lists the viewer's friends. Staged ids are friend user ids.
type FriendList struct {
	*collection.Collection[models.Friend, struct{}]
}

// NewFriendList creates the viewer's friend list.
func NewFriendList(api FriendsAPI, viewer Viewer) *FriendList {
	return &FriendList{
		Collection: collection.New[models.Friend, struct{}]("friends", friendSource{api: api, viewer: viewer}),
	}
}

// Remove stages and removes friendID.
func (l *FriendList) Remove(ctx context.Context, friendID int64) error {
	l.StageDelete(friendID)
	return l.Delete(ctx)
}
