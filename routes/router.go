package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/services"
)

type Deps struct {
	Shopping    *services.ShoppingService
	Accounts    *services.AccountService
	Issuer      *auth.Issuer
	CORSOrigins []string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	services.SetCheckOrigin(d.CORSOrigins)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	SetupProductRoutes(r)
	SetupAccountRoutes(r, d.Accounts, d.Issuer)

	api := r.Group("/api/v1", d.Issuer.RequireUser())
	SetupListRoutes(api, d.Shopping)
	SetupShareRoutes(api, d.Shopping)

	r.GET("/ws", d.Issuer.RequireUser(), func(c *gin.Context) {
		ServeListEvents(c, d.Shopping)
	})

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
