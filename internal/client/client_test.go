package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcus/clubdash/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken(token), 0)
}

func TestBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}, "tok-123")

	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRID == "" {
		t.Error("expected an X-Request-ID header")
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var present bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}, "")

	c.ListUsers(context.Background())
	if present {
		t.Error("Authorization header sent without a token")
	}
}

func TestLoginIsUnauthenticated(t *testing.T) {
	var gotAuth string
	var body models.Credentials
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != "POST" || r.URL.Path != "/auth/login" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"token":"t","id":5,"firstName":"Ada","lastName":"L","email":"ada@club.io"}`))
	}, "stale")

	resp, err := c.Login(context.Background(), models.Credentials{Email: "ada@club.io", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("login sent Authorization %q", gotAuth)
	}
	if body.Email != "ada@club.io" || body.Password != "pw" {
		t.Errorf("body = %+v", body)
	}
	if resp.Token != "t" || resp.ID != 5 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		message  string
		sentinel error
	}{
		{"message field", 400, `{"message":"email already registered"}`, "email already registered", nil},
		{"error string", 409, `{"error":"pending friend request already exists"}`, "pending friend request already exists", nil},
		{"nested error", 403, `{"error":{"code":"forbidden","message":"not yours"}}`, "not yours", ErrForbidden},
		{"unauthorized", 401, `{"message":"invalid token"}`, "invalid token", ErrUnauthorized},
		{"not found plain", 404, `nope`, "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}, "tok")

			_, err := c.ListUsers(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.message {
				t.Errorf("APIError = %+v", apiErr)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(&APIError{Status: 400, Message: "bad email"}); got != "bad email" {
		t.Errorf("server message: got %q", got)
	}
	wrapped := fmt.Errorf("login: %w", &APIError{Status: 422, Message: "weak password"})
	if got := Message(wrapped); got != "weak password" {
		t.Errorf("wrapped server message: got %q", got)
	}
	if got := Message(errors.New("http request: dial tcp: refused")); got != "http request: dial tcp: refused" {
		t.Errorf("transport message: got %q", got)
	}
	if got := Message(&APIError{Status: 500}); got != "HTTP 500" {
		t.Errorf("status only: got %q", got)
	}
	if got := Message(errors.New("  ")); got != genericMessage {
		t.Errorf("blank: got %q", got)
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	c := New("http://127.0.0.1:1", staticToken("t"), 0)
	_, err := c.ListUsers(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an APIError: %v", err)
	}
}

func TestResourcePaths(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == "GET" && r.URL.Path == "/games" {
			w.Write([]byte(`[{"id":1,"name":"Valorant"}]`))
			return
		}
		if r.Method == "GET" {
			w.Write([]byte(`{"id":2,"name":"Dota 2"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}, "t")

	ctx := context.Background()
	games := c.Games()
	list, err := games.List(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "Valorant" {
		t.Fatalf("List = %+v, %v", list, err)
	}
	g, err := games.Get(ctx, 2)
	if err != nil || g.Name != "Dota 2" {
		t.Fatalf("Get = %+v, %v", g, err)
	}
	if err := games.Create(ctx, models.GamePayload{Name: "CS2"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := games.Update(ctx, 2, models.GamePayload{Name: "Dota"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := games.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{"GET /games", "GET /games/2", "POST /games", "PUT /games/2", "DELETE /games/2"}
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestSocialPaths(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == "GET":
			w.Write([]byte(`[]`))
		case r.Method == "POST" && r.URL.Path == "/friend-requests":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":9,"senderId":1,"receiverId":2,"status":"pending"}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}, "t")

	ctx := context.Background()
	c.SentFriendRequests(ctx, 1)
	c.ReceivedFriendRequests(ctx, 1)
	req, err := c.SendFriendRequest(ctx, models.FriendRequestPayload{SenderID: 1, ReceiverID: 2})
	if err != nil || req.ID != 9 || req.Status != models.RequestPending {
		t.Fatalf("SendFriendRequest = %+v, %v", req, err)
	}
	c.AcceptFriendRequest(ctx, 9)
	c.DeclineFriendRequest(ctx, 9)
	c.CancelFriendRequest(ctx, 9)
	c.Friends(ctx, 1)
	c.RemoveFriend(ctx, 2)
	c.NewsComments(ctx, 3)
	c.CreateComment(ctx, models.CommentPayload{NewsID: 3, Content: "hi"})
	c.UpdateComment(ctx, 4, models.CommentPayload{Content: "edit"})
	c.DeleteComment(ctx, 4)

	want := []string{
		"GET /users/1/friend-requests/sent",
		"GET /users/1/friend-requests/received",
		"POST /friend-requests",
		"PUT /friend-requests/9/accept",
		"PUT /friend-requests/9/decline",
		"DELETE /friend-requests/9",
		"GET /users/1/friends",
		"DELETE /profile/friends/2",
		"GET /news/3/comments",
		"POST /comments/",
		"PUT /comments/4",
		"DELETE /comments/4",
	}
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Errorf("calls =\n%v\nwant\n%v", calls, want)
	}
}
