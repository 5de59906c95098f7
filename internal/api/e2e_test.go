package api_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marcus/clubdash/internal/api"
	"github.com/marcus/clubdash/internal/client"
	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/people"
	"github.com/marcus/clubdash/internal/serverdb"
	"github.com/marcus/clubdash/internal/session"
	"github.com/marcus/clubdash/internal/social"
)

type harness struct {
	ts  *httptest.Server
	url string
}

func startServer(t *testing.T) *harness {
	t.Helper()
	store, err := serverdb.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	srv, err := api.NewServer(api.Config{
		AllowSignup: true,
		JWTSecret:   "e2e-secret",
		TokenTTL:    time.Hour,
		BasePath:    "/api",
	}, store)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	base, err := client.ResolveBaseURL(context.Background(), ts.Client(), "", ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	return &harness{ts: ts, url: base}
}

// signIn returns a session store and client logged in as email.
func (h *harness) signIn(t *testing.T, email string) (*session.Store, *client.Client) {
	t.Helper()
	store := session.New(session.NewMemory())
	c := client.New(h.url, store, 5*time.Second)
	store.Auth = c
	if _, err := store.Login(context.Background(), models.Credentials{Email: email, Password: "secret"}); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return store, c
}

func (h *harness) register(t *testing.T, first, email string) {
	t.Helper()
	store := session.New(session.NewMemory())
	store.Auth = client.New(h.url, store, 5*time.Second)
	reg := models.Registration{FirstName: first, LastName: "Member", Email: email, Password: "secret"}
	if err := store.Register(context.Background(), reg); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if store.IsAuthenticated() {
		t.Error("register must not sign in")
	}
}

func TestBaseURLDiscovery(t *testing.T) {
	h := startServer(t)
	if want := h.ts.URL + "/api"; h.url != want {
		t.Errorf("base url = %q, want %q", h.url, want)
	}
}

func TestDirectoryScenarios(t *testing.T) {
	h := startServer(t)
	h.register(t, "Ann", "ann@club.test")
	h.register(t, "Bob", "bob@club.test")
	h.register(t, "Cid", "cid@club.test")

	ctx := context.Background()
	annStore, annClient := h.signIn(t, "ann@club.test")
	if id, _ := annStore.ViewerID(); id != 1 {
		t.Fatalf("viewer id = %d, want 1", id)
	}

	dir := people.New(annClient, annStore)
	defer dir.Close()
	dir.Load(ctx)
	if err := dir.Err(); err != nil {
		t.Fatal(err)
	}

	candidates := dir.Candidates()
	if len(candidates) != 2 || candidates[0].ID != 2 || candidates[1].ID != 3 {
		t.Fatalf("candidates = %+v, want users 2 and 3", candidates)
	}
	for _, u := range candidates {
		if got := dir.Label(u.ID); got != models.RelationAddable {
			t.Errorf("label(%d) = %s, want addable", u.ID, got)
		}
	}

	// Ann and Bob become friends.
	if err := dir.SendFriendRequest(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if got := dir.Label(2); got != models.RelationPending {
		t.Errorf("label(2) after send = %s, want pending", got)
	}

	bobStore, bobClient := h.signIn(t, "bob@club.test")
	inbox := social.NewInbox(bobClient, bobStore)
	defer inbox.Close()
	inbox.Load(ctx)
	pending := inbox.Pending()
	if len(pending) != 1 || pending[0].SenderID != 1 {
		t.Fatalf("bob's inbox = %+v", pending)
	}
	if err := inbox.Accept(ctx, pending[0].ID); err != nil {
		t.Fatal(err)
	}

	dir.Load(ctx)
	if got := dir.Label(2); got != models.RelationFriend {
		t.Errorf("label(2) = %s, want friend", got)
	}
	if got := dir.Label(3); got != models.RelationAddable {
		t.Errorf("label(3) = %s, want addable", got)
	}
}

func TestServerMessagesReachClient(t *testing.T) {
	h := startServer(t)
	h.register(t, "Ann", "ann@club.test")
	_, c := h.signIn(t, "ann@club.test")
	ctx := context.Background()

	_, err := c.SendFriendRequest(ctx, models.FriendRequestPayload{SenderID: 1, ReceiverID: 1})
	if got := client.Message(err); got != "cannot send a friend request to yourself" {
		t.Errorf("self request message = %q", got)
	}

	err = c.Games().Create(ctx, models.GamePayload{})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("blank game err = %v", err)
	}

	if _, err := c.News().Get(ctx, 42); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("missing news err = %v, want ErrNotFound", err)
	}

	anon := client.New(h.url, nil, 5*time.Second)
	if _, err := anon.ListUsers(ctx); !errors.Is(err, client.ErrUnauthorized) {
		t.Errorf("anonymous err = %v, want ErrUnauthorized", err)
	}

	other := session.New(session.NewMemory())
	other.Auth = client.New(h.url, other, 5*time.Second)
	_, err = other.Login(ctx, models.Credentials{Email: "ann@club.test", Password: "wrong"})
	if got := client.Message(err); got != "Invalid email or password" {
		t.Errorf("bad login message = %q", got)
	}
}
