package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRequired is returned (wrapped with the field name) when a payload is
// missing a required field.
var ErrRequired = errors.New("required field missing")

// RequestStatus represents friend request status
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Relationship is the derived relation between the viewer and a candidate user.
// It is computed from the friend and pending sets and never stored.
type Relationship string

const (
	RelationAddable Relationship = "addable"
	RelationPending Relationship = "pending"
	RelationFriend  Relationship = "friend"
)

// Profile is the authenticated identity held by the session.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName returns "First Last".
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// User is a directory entry.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName returns "First Last".
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// FriendRequest is a request sent from one user to another.
type FriendRequest struct {
	ID            int64         `json:"id"`
	SenderID      int64         `json:"senderId"`
	ReceiverID    int64         `json:"receiverId"`
	SenderName    string        `json:"senderName"`
	SenderEmail   string        `json:"senderEmail"`
	ReceiverName  string        `json:"receiverName"`
	ReceiverEmail string        `json:"receiverEmail"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Friend is an established friendship as seen from UserID.
type Friend struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	FriendID  int64     `json:"friendId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName returns "First Last".
func (f Friend) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (c Credentials) Validate() error {
	return required("email", c.Email, "password", c.Password)
}

// Registration is the register request body.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks required fields.
func (r Registration) Validate() error {
	return required("firstName", r.FirstName, "lastName", r.LastName, "email", r.Email, "password", r.Password)
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token     string `json:"token"`
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Profile extracts the identity part of the response.
func (r LoginResponse) Profile() *Profile {
	return &Profile{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, Email: r.Email}
}

// FriendRequestPayload is the body for POST /friend-requests.
type FriendRequestPayload struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

// Game is a title the club competes in.
type Game struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// GamePayload creates or updates a Game.
type GamePayload struct {
	Name        string `json:"name"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// Validate checks required fields.
func (p GamePayload) Validate() error {
	return required("name", p.Name)
}

// Team is a club roster for one game.
type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	GameID      int64  `json:"gameId"`
	Description string `json:"description"`
}

// TeamPayload creates or updates a Team.
type TeamPayload struct {
	Name        string `json:"name"`
	GameID      int64  `json:"gameId"`
	Description string `json:"description"`
}

// Validate checks required fields.
func (p TeamPayload) Validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if p.GameID == 0 {
		return fmt.Errorf("gameId: %w", ErrRequired)
	}
	return nil
}

// Tournament is a scheduled competition.
type Tournament struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	GameID    int64  `json:"gameId"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PrizePool string `json:"prizePool"`
}

// TournamentPayload creates or updates a Tournament.
type TournamentPayload struct {
	Name      string `json:"name"`
	GameID    int64  `json:"gameId"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PrizePool string `json:"prizePool"`
}

// Validate checks required fields.
func (p TournamentPayload) Validate() error {
	return required("name", p.Name, "startDate", p.StartDate)
}

// News is a club announcement.
type News struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewsPayload creates or updates a News item.
type NewsPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks required fields.
func (p NewsPayload) Validate() error {
	return required("title", p.Title, "content", p.Content)
}

// Comment belongs to a news item.
type Comment struct {
	ID         int64     `json:"id"`
	NewsID     int64     `json:"newsId"`
	UserID     int64     `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentPayload creates or updates a Comment.
type CommentPayload struct {
	NewsID  int64  `json:"newsId"`
	UserID  int64  `json:"userId"`
	Content string `json:"content"`
}

// Validate checks required fields.
func (p CommentPayload) Validate() error {
	return required("content", p.Content)
}

// required takes name/value pairs and reports the first blank value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%s: %w", pairs[i], ErrRequired)
		}
	}
	return nil
}
