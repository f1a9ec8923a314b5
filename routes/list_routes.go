package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/models"
	"shopping_back_end_go/services"
)

func SetupListRoutes(api *gin.RouterGroup, svc *services.ShoppingService) {
	api.POST("/lists/initial", func(c *gin.Context) {
		CreateInitialList(c, svc)
	})

	api.GET("/lists", func(c *gin.Context) {
		lists, err := svc.ListLists(c.Request.Context(), auth.CurrentUserID(c))
		if err != nil {
			respondError(c, err, "Could not load lists")
			return
		}
		c.JSON(http.StatusOK, lists)
	})

	api.GET("/lists/:listId", func(c *gin.Context) {
		listID, ok := idParam(c, "listId")
		if !ok {
			return
		}
		list, err := svc.GetList(c.Request.Context(), auth.CurrentUserID(c), listID)
		if err != nil {
			respondError(c, err, "Could not load list")
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.POST("/lists/:listId/archive", func(c *gin.Context) {
		listID, ok := idParam(c, "listId")
		if !ok {
			return
		}
		list, err := svc.ArchiveList(c.Request.Context(), auth.CurrentUserID(c), listID)
		if err != nil {
			respondError(c, err, "Could not archive list")
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/lists/:listId/items", func(c *gin.Context) {
		FetchItems(c, svc)
	})

	api.POST("/lists/:listId/items", func(c *gin.Context) {
		AddItem(c, svc)
	})

	api.PATCH("/lists/:listId/items/:itemId", func(c *gin.Context) {
		UpdateItem(c, svc)
	})

	api.DELETE("/lists/:listId/items/:itemId", func(c *gin.Context) {
		listID, ok := idParam(c, "listId")
		if !ok {
			return
		}
		itemID, ok := idParam(c, "itemId")
		if !ok {
			return
		}
		if err := svc.DeleteItem(c.Request.Context(), auth.CurrentUserID(c), listID, itemID); err != nil {
			respondError(c, err, "Could not delete item")
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// CreateInitialList answers 201 when a list was created and 200 when the
// user's active list already existed.
func CreateInitialList(c *gin.Context, svc *services.ShoppingService) {
	list, created, err := svc.CreateInitialList(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Could not create a new list")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, list)
}

func FetchItems(c *gin.Context, svc *services.ShoppingService) {
	listID, ok := idParam(c, "listId")
	if !ok {
		return
	}
	items, err := svc.FetchItems(c.Request.Context(), auth.CurrentUserID(c), listID)
	if err != nil {
		respondError(c, err, "Could not load the items")
		return
	}
	c.JSON(http.StatusOK, items)
}

func AddItem(c *gin.Context, svc *services.ShoppingService) {
	listID, ok := idParam(c, "listId")
	if !ok {
		return
	}
	var req models.NewItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	item, err := svc.AddItem(c.Request.Context(), auth.CurrentUserID(c), listID, req)
	if err != nil {
		respondError(c, err, "Could not add the item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func UpdateItem(c *gin.Context, svc *services.ShoppingService) {
	listID, ok := idParam(c, "listId")
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemId")
	if !ok {
		return
	}
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item, err := svc.SetItemChecked(c.Request.Context(), auth.CurrentUserID(c), listID, itemID, *req.Checked)
	if err != nil {
		respondError(c, err, "Could not update the item")
		return
	}
	c.JSON(http.StatusOK, item)
}
