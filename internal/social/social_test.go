package social

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/marcus/clubdash/internal/models"
)

type viewer struct {
	id int64
	ok bool
}

func (v viewer) ViewerID() (int64, bool) { return v.id, v.ok }

// fakeGraph is a two-sided request/friend store for viewer 1.
type fakeGraph struct {
	requests []models.FriendRequest
	friends  []models.Friend
	calls    []string
	failNext error
	listErr  error
}

func (f *fakeGraph) call(s string) error {
	f.calls = append(f.calls, s)
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeGraph) ReceivedFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	if err := f.call(fmt.Sprintf("received %d", userID)); err != nil {
		return nil, err
	}
	var out []models.FriendRequest
	for _, r := range f.requests {
		if r.ReceiverID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeGraph) SentFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	if err := f.call(fmt.Sprintf("sent %d", userID)); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.FriendRequest
	for _, r := range f.requests {
		if r.SenderID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeGraph) setStatus(id int64, s models.RequestStatus) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = s
		}
	}
}

func (f *fakeGraph) AcceptFriendRequest(ctx context.Context, id int64) error {
	if err := f.call(fmt.Sprintf("accept %d", id)); err != nil {
		return err
	}
	f.setStatus(id, models.RequestAccepted)
	return nil
}

func (f *fakeGraph) DeclineFriendRequest(ctx context.Context, id int64) error {
	if err := f.call(fmt.Sprintf("decline %d", id)); err != nil {
		return err
	}
	f.setStatus(id, models.RequestRejected)
	return nil
}

func (f *fakeGraph) CancelFriendRequest(ctx context.Context, id int64) error {
	if err := f.call(fmt.Sprintf("cancel %d", id)); err != nil {
		return err
	}
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests = append(f.requests[:i], f.requests[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGraph) Friends(ctx context.Context, userID int64) ([]models.Friend, error) {
	if err := f.call(fmt.Sprintf("friends %d", userID)); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Friend(nil), f.friends...), nil
}

func (f *fakeGraph) RemoveFriend(ctx context.Context, friendID int64) error {
	if err := f.call(fmt.Sprintf("remove %d", friendID)); err != nil {
		return err
	}
	for i := range f.friends {
		if f.friends[i].FriendID == friendID {
			f.friends = append(f.friends[:i], f.friends[i+1:]...)
			break
		}
	}
	return nil
}

func graph() *fakeGraph {
	return &fakeGraph{
		requests: []models.FriendRequest{
			{ID: 1, SenderID: 2, ReceiverID: 1, Status: models.RequestPending},
			{ID: 2, SenderID: 3, ReceiverID: 1, Status: models.RequestPending},
			{ID: 3, SenderID: 1, ReceiverID: 4, Status: models.RequestPending},
		},
		friends: []models.Friend{{ID: 1, UserID: 1, FriendID: 5}},
	}
}

var me = viewer{id: 1, ok: true}

func TestInboxAcceptReloads(t *testing.T) {
	g := graph()
	in := NewInbox(g, me)
	in.Load(context.Background())

	if n := len(in.Pending()); n != 2 {
		t.Fatalf("pending = %d, want 2", n)
	}
	if err := in.Accept(context.Background(), 1); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if fmt.Sprint(g.calls) != "[received 1 accept 1 received 1]" {
		t.Errorf("calls = %v", g.calls)
	}
	pending := in.Pending()
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Errorf("pending = %+v, want only request 2", pending)
	}
}

func TestInboxDecline(t *testing.T) {
	g := graph()
	in := NewInbox(g, me)

	if err := in.Decline(context.Background(), 2); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	for _, r := range in.Items() {
		if r.ID == 2 && r.Status != models.RequestRejected {
			t.Errorf("request 2 status = %s", r.Status)
		}
	}
}

func TestInboxAcceptFailure(t *testing.T) {
	g := graph()
	in := NewInbox(g, me)
	boom := errors.New("HTTP 404")
	g.failNext = boom

	err := in.Accept(context.Background(), 99)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
	if fmt.Sprint(g.calls) != "[accept 99]" {
		t.Errorf("calls = %v, want no reload after failure", g.calls)
	}
}

func TestInboxNoViewer(t *testing.T) {
	g := graph()
	in := NewInbox(g, viewer{})

	in.Load(context.Background())
	if !errors.Is(in.Err(), ErrNoViewer) {
		t.Errorf("Err = %v, want ErrNoViewer", in.Err())
	}
	if len(g.calls) != 0 {
		t.Errorf("calls = %v, want none", g.calls)
	}
}

func TestOutboxCancel(t *testing.T) {
	g := graph()
	out := NewOutbox(g, me)
	out.Load(context.Background())
	if n := len(out.Items()); n != 1 {
		t.Fatalf("sent = %d, want 1", n)
	}

	if err := out.Cancel(context.Background(), 3); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(out.Items()) != 0 {
		t.Errorf("sent = %+v, want empty", out.Items())
	}
	if _, ok := out.Staged(); ok {
		t.Error("staged id should be cleared")
	}
}

func TestOutboxCancelFailure(t *testing.T) {
	g := graph()
	out := NewOutbox(g, me)
	g.failNext = errors.New("HTTP 403")

	if err := out.Cancel(context.Background(), 3); err == nil {
		t.Error("expected error")
	}
	if id, ok := out.Staged(); !ok || id != 3 {
		t.Error("failed cancel should stay staged")
	}
}

func TestFriendListRemove(t *testing.T) {
	g := graph()
	fl := NewFriendList(g, me)
	fl.Load(context.Background())

	if err := fl.Remove(context.Background(), 5); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fmt.Sprint(g.calls) != "[friends 1 remove 5 friends 1]" {
		t.Errorf("calls = %v", g.calls)
	}
	if len(fl.Items()) != 0 {
		t.Errorf("friends = %+v", fl.Items())
	}
}

func TestWritesIgnoreReloadFailure(t *testing.T) {
	g := graph()
	out := NewOutbox(g, me)
	fl := NewFriendList(g, me)
	g.listErr = errors.New("refresh failed")

	if err := out.Cancel(context.Background(), 3); err != nil {
		t.Errorf("Cancel = %v, want nil after the request was cancelled", err)
	}
	if err := fl.Remove(context.Background(), 5); err != nil {
		t.Errorf("Remove = %v, want nil after the friend was removed", err)
	}
	if len(g.requests) != 2 || len(g.friends) != 0 {
		t.Errorf("requests = %d, friends = %d", len(g.requests), len(g.friends))
	}
}

func TestFriendListDeleteGuard(t *testing.T) {
	g := graph()
	fl := NewFriendList(g, me)

	fl.Delete(context.Background())
	if len(g.calls) != 0 {
		t.Errorf("calls = %v, want none", g.calls)
	}
}
