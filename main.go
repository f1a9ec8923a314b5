package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/config"
	"shopping_back_end_go/db"
	"shopping_back_end_go/logger"
	"shopping_back_end_go/routes"
	"shopping_back_end_go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Configure(cfg.LogLevel, os.Stdout)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	pool, err := db.InitDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to the database")
	}
	defer pool.Close()

	issuer := auth.NewIssuer(cfg.JWTSecret)
	shopping := services.NewShoppingService(pool, services.NewHub(), services.NewNotifier(cfg.SendGridAPIKey, cfg.MailFrom))
	accounts := services.NewAccountService(pool, issuer)

	r := routes.SetupRouter(routes.Deps{
		Shopping:    shopping,
		Accounts:    accounts,
		Issuer:      issuer,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
