package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/services"
)

// ServeListEvents subscribes the caller to live updates of a list they can view.
func ServeListEvents(c *gin.Context, svc *services.ShoppingService) {
	id, err := uuid.Parse(c.Query("listId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listId"})
		return
	}
	userID := auth.CurrentUserID(c)

	if _, err := svc.GetList(c.Request.Context(), userID, id.String()); err != nil {
		respondError(c, err, "Could not open list updates")
		return
	}

	if err := svc.Hub().Serve(c.Writer, c.Request, id.String(), userID); err != nil {
		log.Warn().Err(err).Str("list_id", id.String()).Msg("websocket upgrade failed")
	}
}
