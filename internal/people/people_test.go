package people

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/marcus/clubdash/internal/models"
)

type viewer struct {
	id int64
	ok bool
}

func (v viewer) ViewerID() (int64, bool) { return v.id, v.ok }

func signedIn(id int64) viewer { return viewer{id: id, ok: true} }

type fakeAPI struct {
	users   []models.User
	sent    []models.FriendRequest
	friends []models.Friend

	usersErr   error
	sendErr    error
	calls      atomic.Int32
	mu         sync.Mutex
	sentBodies []models.FriendRequestPayload
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	f.calls.Add(1)
	return f.users, f.usersErr
}

func (f *fakeAPI) SentFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	f.calls.Add(1)
	return f.sent, nil
}

func (f *fakeAPI) Friends(ctx context.Context, userID int64) ([]models.Friend, error) {
	f.calls.Add(1)
	return f.friends, nil
}

func (f *fakeAPI) SendFriendRequest(ctx context.Context, p models.FriendRequestPayload) (*models.FriendRequest, error) {
	f.calls.Add(1)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.mu.Lock()
	f.sentBodies = append(f.sentBodies, p)
	f.mu.Unlock()
	return &models.FriendRequest{ID: 99, SenderID: p.SenderID, ReceiverID: p.ReceiverID, Status: models.RequestPending}, nil
}

func directory(ids ...int64) []models.User {
	var out []models.User
	for _, id := range ids {
		out = append(out, models.User{ID: id, FirstName: fmt.Sprintf("U%d", id)})
	}
	return out
}

func ids(users []models.User) []int64 {
	var out []int64
	for _, u := range users {
		out = append(out, u.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestLoadAllAddable(t *testing.T) {
	api := &fakeAPI{users: directory(1, 2, 3)}
	d := New(api, signedIn(1))

	d.Load(context.Background())

	if got := ids(d.Candidates()); fmt.Sprint(got) != "[2 3]" {
		t.Fatalf("candidates = %v, want [2 3]", got)
	}
	for _, id := range []int64{2, 3} {
		if got := d.Label(id); got != models.RelationAddable {
			t.Errorf("Label(%d) = %s, want addable", id, got)
		}
	}
}

func TestLoadFriendLabel(t *testing.T) {
	api := &fakeAPI{
		users:   directory(1, 2, 3),
		friends: []models.Friend{{ID: 10, UserID: 1, FriendID: 2}},
	}
	d := New(api, signedIn(1))

	d.Load(context.Background())

	if got := d.Label(2); got != models.RelationFriend {
		t.Errorf("Label(2) = %s, want friend", got)
	}
	if got := d.Label(3); got != models.RelationAddable {
		t.Errorf("Label(3) = %s, want addable", got)
	}
}

func TestLoadPendingOnlyCountsPendingStatus(t *testing.T) {
	api := &fakeAPI{
		users: directory(1, 2, 3, 4),
		sent: []models.FriendRequest{
			{ID: 1, SenderID: 1, ReceiverID: 2, Status: models.RequestPending},
			{ID: 2, SenderID: 1, ReceiverID: 3, Status: models.RequestRejected},
			{ID: 3, SenderID: 1, ReceiverID: 4, Status: models.RequestAccepted},
		},
	}
	d := New(api, signedIn(1))
	d.Load(context.Background())

	pending := d.Pending()
	if !pending.Has(2) || pending.Has(3) || pending.Has(4) {
		t.Errorf("pending = %v, want only 2", pending)
	}
}

func TestViewerNeverCandidate(t *testing.T) {
	tests := []struct {
		name   string
		viewer int64
		users  []models.User
	}{
		{"first", 1, directory(1, 2, 3)},
		{"middle", 2, directory(1, 2, 3)},
		{"only", 5, directory(5)},
		{"absent", 9, directory(1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&fakeAPI{users: tt.users}, signedIn(tt.viewer))
			d.Load(context.Background())
			for _, u := range d.Candidates() {
				if u.ID == tt.viewer {
					t.Errorf("viewer %d listed as candidate", tt.viewer)
				}
			}
		})
	}
}

func TestFriendTakesPrecedence(t *testing.T) {
	api := &fakeAPI{
		users:   directory(1, 2),
		sent:    []models.FriendRequest{{ID: 1, SenderID: 1, ReceiverID: 2, Status: models.RequestPending}},
		friends: []models.Friend{{ID: 1, UserID: 1, FriendID: 2}},
	}
	d := New(api, signedIn(1))
	d.Load(context.Background())

	if got := d.Label(2); got != models.RelationFriend {
		t.Errorf("Label(2) = %s, want friend", got)
	}
}

func TestLabelFor(t *testing.T) {
	friends := IDSet{2: {}, 4: {}}
	pending := IDSet{3: {}, 4: {}}
	tests := []struct {
		id   int64
		want models.Relationship
	}{
		{1, models.RelationAddable},
		{2, models.RelationFriend},
		{3, models.RelationPending},
		{4, models.RelationFriend},
	}
	for _, tt := range tests {
		if got := LabelFor(friends, pending, tt.id); got != tt.want {
			t.Errorf("LabelFor(%d) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestNoViewerNoFetch(t *testing.T) {
	api := &fakeAPI{users: directory(1, 2)}
	d := New(api, viewer{})

	d.Load(context.Background())

	if n := api.calls.Load(); n != 0 {
		t.Errorf("calls = %d, want 0", n)
	}
	if len(d.Candidates()) != 0 || len(d.Pending()) != 0 || len(d.Friends()) != 0 {
		t.Error("expected empty state without a viewer")
	}
	if d.Err() != nil {
		t.Errorf("Err = %v, absent viewer is not an error", d.Err())
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	api := &fakeAPI{
		users:   directory(1, 2, 3),
		sent:    []models.FriendRequest{{ReceiverID: 3, Status: models.RequestPending}},
		friends: []models.Friend{{FriendID: 2}},
	}
	d := New(api, signedIn(1))

	snapshot := func() string {
		return fmt.Sprint(ids(d.Candidates()), d.Label(2), d.Label(3))
	}
	d.Load(context.Background())
	first := snapshot()
	d.Load(context.Background())
	if second := snapshot(); first != second {
		t.Errorf("first %s, second %s", first, second)
	}
}

func TestLoadRebuildsSets(t *testing.T) {
	api := &fakeAPI{
		users: directory(1, 2),
		sent:  []models.FriendRequest{{ReceiverID: 2, Status: models.RequestPending}},
	}
	d := New(api, signedIn(1))
	d.Load(context.Background())

	// Request was declined server-side.
	api.sent = nil
	d.Load(context.Background())
	if got := d.Label(2); got != models.RelationAddable {
		t.Errorf("Label(2) = %s, want addable after reload", got)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	api := &fakeAPI{users: directory(1, 2, 3)}
	d := New(api, signedIn(1))
	d.Load(context.Background())

	api.usersErr = errors.New("HTTP 502")
	api.friends = []models.Friend{{FriendID: 2}}
	d.Load(context.Background())

	if got := ids(d.Candidates()); fmt.Sprint(got) != "[2 3]" {
		t.Errorf("candidates = %v, want prior [2 3]", got)
	}
	if got := d.Label(2); got != models.RelationAddable {
		t.Errorf("Label(2) = %s, partial results must not be applied", got)
	}
	if d.Err() == nil {
		t.Error("expected Err after failed load")
	}
}

func TestFilter(t *testing.T) {
	users := []models.User{
		{ID: 1, FirstName: "John", LastName: "Doe", Email: "jd@club.example"},
		{ID: 2, FirstName: "Jane", LastName: "Roe", Email: "jane@club.example"},
		{ID: 3, FirstName: "Alex", LastName: "Johnson", Email: "alex@other.example"},
	}
	tests := []struct {
		query string
		want  string
	}{
		{"", "[1 2 3]"},
		{"john doe", "[1]"},
		{"JOHN", "[1 3]"},
		{"roe", "[2]"},
		{"other.example", "[3]"},
		{"  jane  ", "[2]"},
		{"nobody", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := fmt.Sprint(ids(Filter(users, tt.query))); got != tt.want {
				t.Errorf("Filter(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}

	if users[0].FirstName != "John" || len(users) != 3 {
		t.Error("Filter must not modify its input")
	}
}

func TestSearchUsesCandidates(t *testing.T) {
	api := &fakeAPI{users: []models.User{
		{ID: 1, FirstName: "John", LastName: "Doe"},
		{ID: 2, FirstName: "John", LastName: "Smith"},
	}}
	d := New(api, signedIn(1))
	d.Load(context.Background())

	if got := ids(d.Search("john")); fmt.Sprint(got) != "[2]" {
		t.Errorf("Search = %v, viewer must be excluded", got)
	}
	if len(d.Candidates()) != 1 {
		t.Error("Search must not change candidates")
	}
}

func TestSendFriendRequestOptimistic(t *testing.T) {
	api := &fakeAPI{users: directory(1, 42)}
	d := New(api, signedIn(1))
	d.Load(context.Background())
	before := api.calls.Load()

	if err := d.SendFriendRequest(context.Background(), 42); err != nil {
		t.Fatalf("SendFriendRequest: %v", err)
	}
	if got := d.Label(42); got != models.RelationPending {
		t.Errorf("Label(42) = %s, want pending", got)
	}
	if n := api.calls.Load() - before; n != 1 {
		t.Errorf("calls after send = %d, want only the POST", n)
	}
	if len(api.sentBodies) != 1 || api.sentBodies[0] != (models.FriendRequestPayload{SenderID: 1, ReceiverID: 42}) {
		t.Errorf("payload = %+v", api.sentBodies)
	}
}

func TestSendFriendRequestFailure(t *testing.T) {
	api := &fakeAPI{users: directory(1, 42), sendErr: errors.New("HTTP 409")}
	var notices []string
	d := New(api, signedIn(1)).WithNotifier(func(msg string) { notices = append(notices, msg) })
	d.Load(context.Background())

	if err := d.SendFriendRequest(context.Background(), 42); err == nil {
		t.Fatal("expected error")
	}
	if got := d.Label(42); got != models.RelationAddable {
		t.Errorf("Label(42) = %s, want unchanged addable", got)
	}
	if len(notices) != 1 {
		t.Errorf("notices = %v, want one", notices)
	}
}

func TestSendFriendRequestNoViewer(t *testing.T) {
	api := &fakeAPI{}
	d := New(api, viewer{})

	err := d.SendFriendRequest(context.Background(), 42)
	if !errors.Is(err, ErrNoViewer) {
		t.Errorf("err = %v, want ErrNoViewer", err)
	}
	if api.calls.Load() != 0 {
		t.Error("no request should be sent without a viewer")
	}
}

func TestCloseDropsResults(t *testing.T) {
	api := &fakeAPI{users: directory(1, 2)}
	d := New(api, signedIn(1))
	d.Close()

	d.Load(context.Background())
	if len(d.Candidates()) != 0 {
		t.Error("closed directory must not apply results")
	}
}

func TestReturnedSetsAreCopies(t *testing.T) {
	api := &fakeAPI{users: directory(1, 2), friends: []models.Friend{{FriendID: 2}}}
	d := New(api, signedIn(1))
	d.Load(context.Background())

	f := d.Friends()
	delete(f, 2)
	if d.Label(2) != models.RelationFriend {
		t.Error("Friends must return a copy")
	}
}
