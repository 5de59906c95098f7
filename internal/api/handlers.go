package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/serverdb"
)

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// selfOnly reads the :id path parameter and requires it to be the caller.
func selfOnly(c *gin.Context) (int64, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if id != getUser(c).UserID {
		writeError(c, http.StatusForbidden, "you can only view your own requests and friends")
		return 0, false
	}
	return id, true
}

// orEmpty keeps list responses as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// --- Directory ---

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.ListUsers()
	if err != nil {
		writeStoreError(c, "list users", err)
		return
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	c.JSON(http.StatusOK, out)
}

// --- Friend requests ---

func (s *Server) handleSentRequests(c *gin.Context) {
	id, ok := selfOnly(c)
	if !ok {
		return
	}
	reqs, err := s.store.SentFriendRequests(id)
	if err != nil {
		writeStoreError(c, "sent requests", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(reqs))
}

func (s *Server) handleReceivedRequests(c *gin.Context) {
	id, ok := selfOnly(c)
	if !ok {
		return
	}
	reqs, err := s.store.ReceivedFriendRequests(id)
	if err != nil {
		writeStoreError(c, "received requests", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(reqs))
}

func (s *Server) handleSendRequest(c *gin.Context) {
	var p models.FriendRequestPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	caller := getUser(c).UserID
	if p.SenderID != 0 && p.SenderID != caller {
		writeError(c, http.StatusForbidden, "you can only send requests as yourself")
		return
	}
	if p.ReceiverID <= 0 {
		writeError(c, http.StatusBadRequest, "receiverId is required")
		return
	}

	req, err := s.store.CreateFriendRequest(caller, p.ReceiverID)
	if err != nil {
		writeStoreError(c, "send request", err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) answerRequest(accept bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := s.store.AnswerFriendRequest(id, getUser(c).UserID, accept); err != nil {
			writeStoreError(c, "answer request", err)
			return
		}
		req, err := s.store.GetFriendRequest(id)
		if err != nil {
			writeStoreError(c, "answer request", err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func (s *Server) handleCancelRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.store.CancelFriendRequest(id, getUser(c).UserID); err != nil {
		writeStoreError(c, "cancel request", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Friends ---

func (s *Server) handleListFriends(c *gin.Context) {
	id, ok := selfOnly(c)
	if !ok {
		return
	}
	friends, err := s.store.ListFriends(id)
	if err != nil {
		writeStoreError(c, "list friends", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(friends))
}

func (s *Server) handleRemoveFriend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.store.RemoveFriend(getUser(c).UserID, id); err != nil {
		writeStoreError(c, "remove friend", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Comments ---

func (s *Server) handleListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := s.store.ListComments(id)
	if err != nil {
		writeStoreError(c, "list comments", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(comments))
}

func bindComment(c *gin.Context) (models.CommentPayload, bool) {
	var p models.CommentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return p, false
	}
	if err := p.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return p, false
	}
	if p.UserID != 0 && p.UserID != getUser(c).UserID {
		writeError(c, http.StatusForbidden, "you can only comment as yourself")
		return p, false
	}
	return p, true
}

func (s *Server) handleCreateComment(c *gin.Context) {
	p, ok := bindComment(c)
	if !ok {
		return
	}
	if p.NewsID <= 0 {
		writeError(c, http.StatusBadRequest, "newsId is required")
		return
	}
	comment, err := s.store.CreateComment(p.NewsID, getUser(c).UserID, p.Content)
	if err != nil {
		writeStoreError(c, "create comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) handleUpdateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, ok := bindComment(c)
	if !ok {
		return
	}
	comment, err := s.store.UpdateComment(id, getUser(c).UserID, p.Content)
	if err != nil {
		writeStoreError(c, "update comment", err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteComment(id, getUser(c).UserID); err != nil {
		writeStoreError(c, "delete comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Club entities ---

type payload interface {
	Validate() error
}

// entityRoutes serves list/get/create/update/delete for one table.
type entityRoutes[E any, P payload] struct {
	table func() *serverdb.Table[E, P]
	// check runs after Validate; a returned error becomes a 400.
	check func(P) error
	// extra supplies server-owned columns on insert.
	extra func(c *gin.Context) ([]serverdb.Column, error)
}

func (r entityRoutes[E, P]) register(g *gin.RouterGroup, path string) {
	g.GET(path, r.list)
	g.POST(path, r.create)
	g.GET(path+"/:id", r.get)
	g.PUT(path+"/:id", r.update)
	g.DELETE(path+"/:id", r.remove)
}

func (r entityRoutes[E, P]) bind(c *gin.Context) (P, bool) {
	var p P
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return p, false
	}
	err := p.Validate()
	if err == nil && r.check != nil {
		err = r.check(p)
	}
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return p, false
	}
	return p, true
}

func (r entityRoutes[E, P]) list(c *gin.Context) {
	items, err := r.table().List()
	if err != nil {
		writeStoreError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(items))
}

func (r entityRoutes[E, P]) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := r.table().Get(id)
	if err != nil {
		writeStoreError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r entityRoutes[E, P]) create(c *gin.Context) {
	p, ok := r.bind(c)
	if !ok {
		return
	}
	var extra []serverdb.Column
	if r.extra != nil {
		var err error
		if extra, err = r.extra(c); err != nil {
			writeStoreError(c, "create", err)
			return
		}
	}
	item, err := r.table().Insert(p, extra...)
	if err != nil {
		writeStoreError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (r entityRoutes[E, P]) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, ok := r.bind(c)
	if !ok {
		return
	}
	item, err := r.table().Update(id, p)
	if err != nil {
		writeStoreError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r entityRoutes[E, P]) remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := r.table().Delete(id); err != nil {
		writeStoreError(c, "delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

var errUnknownGame = errors.New("gameId does not match any game")

// gameExists rejects team payloads pointing at a missing game.
func (s *Server) gameExists(p models.TeamPayload) error {
	if _, err := s.store.Games().Get(p.GameID); err != nil {
		if errors.Is(err, serverdb.ErrNotFound) {
			return errUnknownGame
		}
		return err
	}
	return nil
}

// newsAuthor stamps the caller as the author of new posts.
func (s *Server) newsAuthor(c *gin.Context) ([]serverdb.Column, error) {
	u, err := s.store.GetUserByID(getUser(c).UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, serverdb.ErrNotFound
	}
	return serverdb.AuthorColumns(u), nil
}
