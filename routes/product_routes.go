package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopping_back_end_go/productimage"
)

func SetupProductRoutes(r *gin.Engine) {
	r.GET("/api/v1/product-image", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"emoji": productimage.Emoji(c.Query("name"), c.Query("category"))})
	})

	r.GET("/api/v1/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, productimage.Categories())
	})
}
