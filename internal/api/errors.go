package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcus/clubdash/internal/serverdb"
)

// writeError aborts the request with a {"message": ...} body, the shape the
// client reads server messages from.
func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// writeStoreError maps store sentinels to statuses; anything else is logged
// and reported as a 500.
func writeStoreError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, serverdb.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, serverdb.ErrForbidden):
		writeError(c, http.StatusForbidden, "you are not allowed to do that")
	case errors.Is(err, serverdb.ErrSelfRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, serverdb.ErrEmailTaken),
		errors.Is(err, serverdb.ErrDuplicateRequest),
		errors.Is(err, serverdb.ErrAlreadyFriends),
		errors.Is(err, serverdb.ErrNotPending):
		writeError(c, http.StatusConflict, err.Error())
	default:
		logFor(c).Error(action, "err", err)
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
