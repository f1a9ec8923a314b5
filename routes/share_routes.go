package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/models"
	"shopping_back_end_go/services"
)

func SetupShareRoutes(api *gin.RouterGroup, svc *services.ShoppingService) {
	api.POST("/lists/:listId/shares", func(c *gin.Context) {
		ShareList(c, svc)
	})

	api.GET("/lists/:listId/shares", func(c *gin.Context) {
		listID, ok := idParam(c, "listId")
		if !ok {
			return
		}
		shares, err := svc.ListShares(c.Request.Context(), auth.CurrentUserID(c), listID)
		if err != nil {
			respondError(c, err, "Could not load shares")
			return
		}
		c.JSON(http.StatusOK, shares)
	})

	api.DELETE("/lists/:listId/shares/:shareId", func(c *gin.Context) {
		listID, ok := idParam(c, "listId")
		if !ok {
			return
		}
		shareID, ok := idParam(c, "shareId")
		if !ok {
			return
		}
		if err := svc.RevokeShare(c.Request.Context(), auth.CurrentUserID(c), listID, shareID); err != nil {
			respondError(c, err, "Could not revoke share")
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/shared-with-me", func(c *gin.Context) {
		lists, err := svc.SharedWithMe(c.Request.Context(), auth.CurrentUserID(c))
		if err != nil {
			respondError(c, err, "Could not retrieve shared lists")
			return
		}
		c.JSON(http.StatusOK, lists)
	})
}

func ShareList(c *gin.Context, svc *services.ShoppingService) {
	listID, ok := idParam(c, "listId")
	if !ok {
		return
	}
	var req models.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	share, err := svc.ShareList(c.Request.Context(), auth.CurrentUserID(c), listID, req.Identifier, req.Permission)
	if err != nil {
		respondError(c, err, "Could not share the list")
		return
	}
	c.JSON(http.StatusCreated, share)
}
