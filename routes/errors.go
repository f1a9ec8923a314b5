package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/services"
)

var knownErrors = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrListNotFound, http.StatusNotFound, "List not found"},
	{services.ErrItemNotFound, http.StatusNotFound, "Item not found"},
	{services.ErrShareNotFound, http.StatusNotFound, "Share not found"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrAlreadyShared, http.StatusConflict, "List is already shared with this user"},
	{services.ErrEmailTaken, http.StatusConflict, "Email or username already exists"},
	{services.ErrForbidden, http.StatusForbidden, "You do not have permission for this list"},
	{services.ErrListArchived, http.StatusConflict, "List is archived"},
	{services.ErrInvalidPermission, http.StatusBadRequest, "Permission must be view or edit"},
	{services.ErrSelfShare, http.StatusBadRequest, "You cannot share a list with yourself"},
	{services.ErrInvalidUsername, http.StatusBadRequest, "Username must not contain @"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
}

// respondError answers with the message of a known service error, or logs
// the failure and answers with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			c.JSON(k.status, gin.H{"error": k.message})
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// idParam reads a uuid path parameter, answering 400 when it is malformed.
func idParam(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return "", false
	}
	return id.String(), true
}
