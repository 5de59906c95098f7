// Package comments manages the comment thread under one news item.
package comments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/marcus/clubdash/internal/collection"
	"github.com/marcus/clubdash/internal/models"
)

// ErrEmptyComment is returned when submitted text is blank.
var ErrEmptyComment = errors.New("comment text is required")

// API is the comments part of the backend.
type API interface {
	NewsComments(ctx context.Context, newsID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, p models.CommentPayload) error
	UpdateComment(ctx context.Context, id int64, p models.CommentPayload) error
	DeleteComment(ctx context.Context, id int64) error
}

// Viewer resolves the signed-in user.
type Viewer interface {
	ViewerID() (int64, bool)
}

// source scopes API to one news item.
type source struct {
	api    API
	newsID int64
}

func (s source) List(ctx context.Context) ([]models.Comment, error) {
	return s.api.NewsComments(ctx, s.newsID)
}

func (s source) Create(ctx context.Context, p models.CommentPayload) error {
	return s.api.CreateComment(ctx, p)
}

func (s source) Update(ctx context.Context, id int64, p models.CommentPayload) error {
	return s.api.UpdateComment(ctx, id, p)
}

func (s source) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteComment(ctx, id)
}

// Thread is the comment list of one news item plus the comment being edited.
type Thread struct {
	*collection.Collection[models.Comment, models.CommentPayload]

	newsID int64
	viewer Viewer

	mu      sync.Mutex
	editing *models.Comment
}

// New creates the thread for newsID.
func New(api API, viewer Viewer, newsID int64) *Thread {
	return &Thread{
		Collection: collection.New[models.Comment, models.CommentPayload]("comments", source{api: api, newsID: newsID}),
		newsID:     newsID,
		viewer:     viewer,
	}
}

// WithLogger sets the logger used for failures.
func (t *Thread) WithLogger(l *slog.Logger) *Thread {
	t.Collection.WithLogger(l)
	return t
}

// StartEdit stages c; the next Submit updates it instead of creating.
func (t *Thread) StartEdit(c models.Comment) {
	t.mu.Lock()
	t.editing = &c
	t.mu.Unlock()
}

// CancelEdit drops the staged comment.
func (t *Thread) CancelEdit() {
	t.mu.Lock()
	t.editing = nil
	t.mu.Unlock()
}

// Editing returns the staged comment, if any.
func (t *Thread) Editing() (models.Comment, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.editing == nil {
		return models.Comment{}, false
	}
	return *t.editing, true
}

// Submit saves text as a new comment, or as the new content of the staged
// one. Blank text is rejected before any request is made.
func (t *Thread) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}

	viewerID, _ := t.viewer.ViewerID()
	p := models.CommentPayload{NewsID: t.newsID, UserID: viewerID, Content: text}

	editing, isEdit := t.Editing()
	var err error
	if isEdit {
		err = t.Update(ctx, editing.ID, p)
	} else {
		err = t.Create(ctx, p)
	}
	if err != nil {
		return err
	}

	if isEdit {
		t.mu.Lock()
		if t.editing != nil && t.editing.ID == editing.ID {
			t.editing = nil
		}
		t.mu.Unlock()
	}
	return nil
}

// CanModify reports whether the viewer wrote c. It only gates which
// controls are shown.
func (t *Thread) CanModify(c models.Comment) bool {
	return CanModify(t.viewer, c)
}

// CanModify reports whether viewer wrote c.
func CanModify(viewer Viewer, c models.Comment) bool {
	id, ok := viewer.ViewerID()
	return ok && id == c.UserID
}
