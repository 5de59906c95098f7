package client

import (
	"context"
	"fmt"

	"github.com/marcus/clubdash/internal/models"
)

// --- Auth ---

// Login exchanges credentials for a token and the caller's profile.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.doNoAuth(ctx, "POST", "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	return c.doNoAuth(ctx, "POST", "/auth/register", reg, nil)
}

// --- Directory ---

// ListUsers returns every directory user.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp []models.User
	if err := c.do(ctx, "GET", "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// --- Friend requests ---

// SentFriendRequests lists requests sent by userID.
func (c *Client) SentFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	var resp []models.FriendRequest
	if err := c.do(ctx, "GET", fmt.Sprintf("/users/%d/friend-requests/sent", userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ReceivedFriendRequests lists requests addressed to userID.
func (c *Client) ReceivedFriendRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	var resp []models.FriendRequest
	if err := c.do(ctx, "GET", fmt.Sprintf("/users/%d/friend-requests/received", userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendFriendRequest creates a pending request.
func (c *Client) SendFriendRequest(ctx context.Context, p models.FriendRequestPayload) (*models.FriendRequest, error) {
	var resp models.FriendRequest
	if err := c.do(ctx, "POST", "/friend-requests", p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AcceptFriendRequest accepts a received request.
func (c *Client) AcceptFriendRequest(ctx context.Context, id int64) error {
	return c.do(ctx, "PUT", fmt.Sprintf("/friend-requests/%d/accept", id), nil, nil)
}

// DeclineFriendRequest rejects a received request.
func (c *Client) DeclineFriendRequest(ctx context.Context, id int64) error {
	return c.do(ctx, "PUT", fmt.Sprintf("/friend-requests/%d/decline", id), nil, nil)
}

// CancelFriendRequest deletes a request the caller sent.
func (c *Client) CancelFriendRequest(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/friend-requests/%d", id), nil, nil)
}

// --- Friends ---

// Friends lists userID's friendships.
func (c *Client) Friends(ctx context.Context, userID int64) ([]models.Friend, error) {
	var resp []models.Friend
	if err := c.do(ctx, "GET", fmt.Sprintf("/users/%d/friends", userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveFriend ends the caller's friendship with friendID.
func (c *Client) RemoveFriend(ctx context.Context, friendID int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/profile/friends/%d", friendID), nil, nil)
}

// --- Comments ---

// NewsComments lists the comments on a news item.
func (c *Client) NewsComments(ctx context.Context, newsID int64) ([]models.Comment, error) {
	var resp []models.Comment
	if err := c.do(ctx, "GET", fmt.Sprintf("/news/%d/comments", newsID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateComment posts a new comment.
func (c *Client) CreateComment(ctx context.Context, p models.CommentPayload) error {
	return c.do(ctx, "POST", "/comments/", p, nil)
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, id int64, p models.CommentPayload) error {
	return c.do(ctx, "PUT", fmt.Sprintf("/comments/%d", id), p, nil)
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/comments/%d", id), nil, nil)
}

// --- Club entities ---

// Games is the /games resource.
func (c *Client) Games() *Resource[models.Game, models.GamePayload] {
	return NewResource[models.Game, models.GamePayload](c, "/games")
}

// Teams is the /teams resource.
func (c *Client) Teams() *Resource[models.Team, models.TeamPayload] {
	return NewResource[models.Team, models.TeamPayload](c, "/teams")
}

// Tournaments is the /tournaments resource.
func (c *Client) Tournaments() *Resource[models.Tournament, models.TournamentPayload] {
	return NewResource[models.Tournament, models.TournamentPayload](c, "/tournaments")
}

// News is the /news resource.
func (c *Client) News() *Resource[models.News, models.NewsPayload] {
	return NewResource[models.News, models.NewsPayload](c, "/news")
}
