package dashboard

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/people"
	"github.com/marcus/clubdash/internal/session"
	"github.com/marcus/clubdash/internal/social"
)

type fakeBackend struct {
	mu       sync.Mutex
	users    []models.User
	received []models.FriendRequest
	friends  []models.Friend
	news     []models.News
	calls    []string
}

func (f *fakeBackend) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]models.User, error) {
	f.record("users")
	return f.users, nil
}

func (f *fakeBackend) SentFriendRequests(ctx context.Context, id int64) ([]models.FriendRequest, error) {
	f.record("sent")
	return nil, nil
}

func (f *fakeBackend) Friends(ctx context.Context, id int64) ([]models.Friend, error) {
	f.record("friends")
	return f.friends, nil
}

func (f *fakeBackend) SendFriendRequest(ctx context.Context, p models.FriendRequestPayload) (*models.FriendRequest, error) {
	f.record("send")
	return &models.FriendRequest{ID: 50, SenderID: p.SenderID, ReceiverID: p.ReceiverID, Status: models.RequestPending}, nil
}

func (f *fakeBackend) ReceivedFriendRequests(ctx context.Context, id int64) ([]models.FriendRequest, error) {
	f.record("received")
	return f.received, nil
}

func (f *fakeBackend) AcceptFriendRequest(ctx context.Context, id int64) error {
	f.record("accept")
	return nil
}

func (f *fakeBackend) DeclineFriendRequest(ctx context.Context, id int64) error {
	f.record("decline")
	return nil
}

func (f *fakeBackend) RemoveFriend(ctx context.Context, id int64) error {
	f.record("remove")
	return nil
}

type fakeNews struct{ items []models.News }

func (n *fakeNews) Load(ctx context.Context) {}
func (n *fakeNews) Items() []models.News     { return n.items }
func (n *fakeNews) Err() error               { return nil }

func setup(t *testing.T, signedIn bool) (Model, *fakeBackend, *session.Store) {
	t.Helper()
	store := session.New(session.NewMemory())
	if signedIn {
		if err := store.SetToken("tok"); err != nil {
			t.Fatal(err)
		}
		if err := store.SetUser(&models.Profile{ID: 1, FirstName: "Ann", LastName: "Lee"}); err != nil {
			t.Fatal(err)
		}
	}
	be := &fakeBackend{
		users: []models.User{
			{ID: 1, FirstName: "Ann", LastName: "Lee"},
			{ID: 3, FirstName: "John", LastName: "Doe"},
			{ID: 2, FirstName: "Bob", LastName: "Ray"},
		},
		received: []models.FriendRequest{{ID: 7, SenderID: 4, ReceiverID: 1, SenderName: "Cy Poe", Status: models.RequestPending}},
		friends:  []models.Friend{{ID: 1, UserID: 1, FriendID: 2, FirstName: "Bob", LastName: "Ray"}},
	}
	deps := Deps{
		Session: store,
		People:  people.New(be, store),
		Inbox:   social.NewInbox(be, store),
		Friends: social.NewFriendList(be, store),
		News: &fakeNews{items: []models.News{
			{ID: 1, Title: "Old", CreatedAt: time.Now().Add(-time.Hour)},
			{ID: 2, Title: "New", CreatedAt: time.Now()},
		}},
	}
	m, stop := NewModel(deps, time.Minute)
	t.Cleanup(stop)
	return m, be, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

func refreshed(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(FetchData(context.Background(), m.deps))
	return next.(Model)
}

func TestFetchDataSignedOut(t *testing.T) {
	m, be, _ := setup(t, false)

	msg := FetchData(context.Background(), m.deps)
	if msg.Viewer != nil || len(msg.People) != 0 {
		t.Errorf("msg = %+v, want empty", msg)
	}
	if be.callCount() != 0 {
		t.Errorf("calls = %v, want none while signed out", be.calls)
	}
}

func TestFetchData(t *testing.T) {
	m, _, _ := setup(t, true)

	msg := FetchData(context.Background(), m.deps)
	if msg.Viewer == nil || msg.Viewer.ID != 1 {
		t.Fatalf("viewer = %+v", msg.Viewer)
	}
	var names []string
	for _, u := range msg.People {
		names = append(names, u.FullName())
	}
	if strings.Join(names, ",") != "Bob Ray,John Doe" {
		t.Errorf("people = %v, want sorted without viewer", names)
	}
	if !msg.Friends.Has(2) {
		t.Error("friend set should contain 2")
	}
	if len(msg.News) != 2 || msg.News[0].Title != "New" {
		t.Errorf("news should be newest first: %+v", msg.News)
	}
	if len(msg.Requests) != 1 || len(msg.Friended) != 1 {
		t.Errorf("requests=%d friends=%d", len(msg.Requests), len(msg.Friended))
	}
}

func TestSearchFiltersPeople(t *testing.T) {
	m, _, _ := setup(t, true)
	m = refreshed(t, m)

	m, _ = press(m, "/", "j", "o", "h", "n")
	if !m.Searching {
		t.Fatal("expected search mode")
	}
	rows := m.VisiblePeople()
	if len(rows) != 1 || rows[0].ID != 3 {
		t.Errorf("rows = %+v, want only John", rows)
	}
	if len(m.People) != 2 {
		t.Error("search must not change the underlying people")
	}

	m, _ = press(m, "esc")
	if m.Searching || len(m.VisiblePeople()) != 2 {
		t.Error("esc should leave search and clear the filter")
	}
}

func TestAddFriendIsOptimistic(t *testing.T) {
	m, be, _ := setup(t, true)
	m = refreshed(t, m)
	before := be.callCount()

	// People are sorted: Bob (friend), John (addable).
	m, cmd := press(m, "j", "a")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	res, ok := cmd().(ActionResultMsg)
	if !ok || res.Err != nil {
		t.Fatalf("result = %+v", res)
	}
	next, follow := m.Update(res)
	m = next.(Model)

	if follow != nil {
		t.Error("friend request should not trigger a reload")
	}
	if got := people.LabelFor(m.Friends, m.Pending, 3); got != models.RelationPending {
		t.Errorf("John = %s, want pending", got)
	}
	if n := be.callCount() - before; n != 1 {
		t.Errorf("calls = %d, want only the send", n)
	}
}

func TestAddFriendAlreadyFriend(t *testing.T) {
	m, be, _ := setup(t, true)
	m = refreshed(t, m)
	before := be.callCount()

	_, cmd := press(m, "a")
	res := cmd().(ActionResultMsg)
	if !strings.Contains(res.Status, "already friend") {
		t.Errorf("status = %q", res.Status)
	}
	if be.callCount() != before {
		t.Error("no request should be sent for an existing friend")
	}
}

func TestAcceptRequest(t *testing.T) {
	m, be, _ := setup(t, true)
	m = refreshed(t, m)

	m, cmd := press(m, "2", "a")
	res := cmd().(ActionResultMsg)
	if res.Err != nil || !res.Reload {
		t.Errorf("result = %+v", res)
	}
	found := false
	for _, c := range be.calls {
		if c == "accept" {
			found = true
		}
	}
	if !found {
		t.Errorf("calls = %v, want accept", be.calls)
	}
}

func TestRemoveFriendConfirm(t *testing.T) {
	m, be, _ := setup(t, true)
	m = refreshed(t, m)

	m, _ = press(m, "3", "x")
	if m.ConfirmRemove == nil || m.ConfirmRemove.FriendID != 2 {
		t.Fatalf("ConfirmRemove = %+v", m.ConfirmRemove)
	}
	if _, ok := m.deps.Friends.Staged(); !ok {
		t.Error("friend should be staged for removal")
	}

	m, _ = press(m, "n")
	if m.ConfirmRemove != nil {
		t.Error("n should cancel")
	}
	if _, ok := m.deps.Friends.Staged(); ok {
		t.Error("cancel should clear the staged id")
	}

	m, _ = press(m, "x")
	_, cmd := press(m, "y")
	res := cmd().(ActionResultMsg)
	if res.Err != nil || !strings.Contains(res.Status, "Bob Ray") {
		t.Errorf("result = %+v", res)
	}
	if be.calls[len(be.calls)-2] != "remove" {
		t.Errorf("calls = %v, want remove then reload", be.calls)
	}
}

func TestSessionChangeDelivered(t *testing.T) {
	m, _, store := setup(t, true)
	m = refreshed(t, m)

	if err := store.Logout(); err != nil {
		t.Fatal(err)
	}
	msg := m.waitForSession()()
	changed, ok := msg.(SessionChangedMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	next, _ := m.Update(changed)
	m = next.(Model)
	if m.Viewer != nil || m.Status != "Signed out" {
		t.Errorf("viewer = %+v, status = %q", m.Viewer, m.Status)
	}
}

func TestViewRendersPanels(t *testing.T) {
	m, _, _ := setup(t, true)
	m = refreshed(t, m)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"PEOPLE (2)", "REQUESTS (1)", "FRIENDS (1)", "NEWS", "John Doe", "Cy Poe"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewSignedOut(t *testing.T) {
	m, _, _ := setup(t, false)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	if !strings.Contains(m.View(), "Not signed in") {
		t.Error("expected signed-out view")
	}
}

func TestViewCompact(t *testing.T) {
	m, _, _ := setup(t, true)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	m = next.(Model)

	if !strings.Contains(m.View(), "resize for full view") {
		t.Error("expected compact view")
	}
}

func TestTabCycles(t *testing.T) {
	m, _, _ := setup(t, true)
	for i := 0; i < panelCount; i++ {
		m, _ = press(m, "tab")
	}
	if m.ActivePanel != PanelPeople {
		t.Errorf("ActivePanel = %d after full cycle", m.ActivePanel)
	}
}
