package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rdlima/go-auth-api/internal/api"
	"github.com/rdlima/go-auth-api/internal/api/handlers"
	"github.com/rdlima/go-auth-api/internal/auth"
	"github.com/rdlima/go-auth-api/internal/config"
	"github.com/rdlima/go-auth-api/internal/database"
	"github.com/rdlima/go-auth-api/internal/graph"
	"github.com/rdlima/go-auth-api/internal/logger"
	"github.com/rdlima/go-auth-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services and the shared authenticator
	userService := services.NewUserService(db)
	codec := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	authn := auth.NewAuthenticator(codec, userService)

	// Set up GraphQL
	schema, err := graph.NewSchema(userService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build GraphQL schema")
	}
	graphHandler := graph.NewHandler(schema, authn, cfg.IsProduction())

	// Set up router
	authHandler := handlers.NewAuthHandler(userService, codec)
	userHandler := handlers.NewUserHandler(userService)
	router := api.NewRouter(authn, authHandler, userHandler, graphHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
