// Package collection keeps a local copy of a remote list in sync. Every write
// is followed by a full reload; the server is always the source of truth.
package collection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrUnsupported is recorded when a write is attempted on a source that does
// not offer it.
var ErrUnsupported = errors.New("operation not supported by this collection")

// Source lists the remote collection.
type Source[E any] interface {
	List(ctx context.Context) ([]E, error)
}

// Creator is implemented by sources that accept new records.
type Creator[P any] interface {
	Create(ctx context.Context, p P) error
}

// Updater is implemented by sources that accept edits.
type Updater[P any] interface {
	Update(ctx context.Context, id int64, p P) error
}

// Deleter is implemented by sources that accept deletes.
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// validator is implemented by payloads with required fields.
type validator interface {
	Validate() error
}

// Collection is the local view of one remote list plus the edit/delete
// state the forms and confirm dialogs are driven by.
type Collection[E any, P any] struct {
	name string
	src  Source[E]
	log  *slog.Logger

	mu         sync.RWMutex
	items      []E
	loading    bool
	err        error
	selected   *E
	dialogOpen bool
	staged     *int64
	closed     bool
}

// New creates a collection named name (used in log lines) over src.
func New[E any, P any](name string, src Source[E]) *Collection[E, P] {
	return &Collection[E, P]{name: name, src: src, log: slog.Default()}
}

// WithLogger sets the logger used for failures.
func (c *Collection[E, P]) WithLogger(l *slog.Logger) *Collection[E, P] {
	if l != nil {
		c.log = l
	}
	return c
}

// Load replaces the local items with the remote list. Failures are logged
// and recorded in Err; the previous items are kept.
func (c *Collection[E, P]) Load(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.mu.Unlock()

	items, err := c.src.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.closed || ctx.Err() != nil {
		return
	}
	if err != nil {
		c.err = err
		c.log.Warn(c.name+": load", "err", err)
		return
	}
	c.items = items
	c.err = nil
}

// Create posts p and reloads. The returned error is the outcome of the
// write alone; a failed reload only shows up in Err.
func (c *Collection[E, P]) Create(ctx context.Context, p P) error {
	creator, ok := c.src.(Creator[P])
	if !ok {
		return c.fail("create", ErrUnsupported)
	}
	if err := validate(p); err != nil {
		return c.fail("create", err)
	}
	if err := creator.Create(ctx, p); err != nil {
		return c.fail("create", err)
	}
	c.Load(ctx)
	return nil
}

// Update puts p to id and reloads. Like Create, it reports the write only.
func (c *Collection[E, P]) Update(ctx context.Context, id int64, p P) error {
	updater, ok := c.src.(Updater[P])
	if !ok {
		return c.fail("update", ErrUnsupported)
	}
	if err := validate(p); err != nil {
		return c.fail("update", err)
	}
	if err := updater.Update(ctx, id, p); err != nil {
		return c.fail("update", err)
	}
	c.Load(ctx)
	return nil
}

// StageDelete marks id for deletion; Delete executes it.
func (c *Collection[E, P]) StageDelete(id int64) {
	c.mu.Lock()
	c.staged = &id
	c.mu.Unlock()
}

// CancelDelete clears the staged id.
func (c *Collection[E, P]) CancelDelete() {
	c.mu.Lock()
	c.staged = nil
	c.mu.Unlock()
}

// Staged returns the id staged for deletion.
func (c *Collection[E, P]) Staged() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.staged == nil {
		return 0, false
	}
	return *c.staged, true
}

// Delete removes the staged record and reloads. With nothing staged it does
// nothing at all. The returned error is the outcome of the delete alone.
func (c *Collection[E, P]) Delete(ctx context.Context) error {
	c.mu.Lock()
	if c.staged == nil {
		c.mu.Unlock()
		return nil
	}
	id := *c.staged
	c.mu.Unlock()

	deleter, ok := c.src.(Deleter)
	if !ok {
		return c.fail("delete", ErrUnsupported)
	}
	if err := deleter.Delete(ctx, id); err != nil {
		return c.fail("delete", err)
	}

	c.mu.Lock()
	if c.staged != nil && *c.staged == id {
		c.staged = nil
	}
	c.mu.Unlock()
	c.Load(ctx)
	return nil
}

// OpenCreate opens the form for a new record.
func (c *Collection[E, P]) OpenCreate() {
	c.mu.Lock()
	c.selected = nil
	c.dialogOpen = true
	c.mu.Unlock()
}

// OpenEdit opens the form for an existing record.
func (c *Collection[E, P]) OpenEdit(e E) {
	c.mu.Lock()
	c.selected = &e
	c.dialogOpen = true
	c.mu.Unlock()
}

// CloseDialog closes the form and clears the selection.
func (c *Collection[E, P]) CloseDialog() {
	c.mu.Lock()
	c.selected = nil
	c.dialogOpen = false
	c.mu.Unlock()
}

// Selected returns the record being edited; false means the form creates.
func (c *Collection[E, P]) Selected() (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		var zero E
		return zero, false
	}
	return *c.selected, true
}

// DialogOpen reports whether the form is open.
func (c *Collection[E, P]) DialogOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dialogOpen
}

// Items returns a copy of the current items.
func (c *Collection[E, P]) Items() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// Loading reports whether a load is in flight.
func (c *Collection[E, P]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last failure, cleared by the next successful load.
func (c *Collection[E, P]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close stops the collection from applying any further results.
func (c *Collection[E, P]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Collection[E, P]) fail(op string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.err = err
		c.log.Warn(c.name+": "+op, "err", err)
	}
	return err
}

func validate(p any) error {
	if v, ok := p.(validator); ok {
		return v.Validate()
	}
	return nil
}
