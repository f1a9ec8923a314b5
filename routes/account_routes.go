package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/models"
	"shopping_back_end_go/services"
)

func SetupAccountRoutes(r *gin.Engine, accounts *services.AccountService, issuer *auth.Issuer) {
	r.POST("/api/v1/auth/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Debug().Err(err).Msg("invalid register request")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
			return
		}

		profile, token, err := accounts.Register(c.Request.Context(), req)
		if err != nil {
			respondError(c, err, "Could not create account")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
	})

	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		profile, token, err := accounts.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, err, "Could not log in")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
	})

	r.GET("/api/v1/me", issuer.RequireUser(), func(c *gin.Context) {
		profile, err := accounts.Profile(c.Request.Context(), auth.CurrentUserID(c))
		if err != nil {
			respondError(c, err, "Could not load profile")
			return
		}
		c.JSON(http.StatusOK, profile)
	})
}
