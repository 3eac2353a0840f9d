package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodie/backend/internal/config"
	"foodie/backend/internal/httpserver"
	"foodie/backend/internal/infrastructure/password"
	"foodie/backend/internal/infrastructure/postgres"
	"foodie/backend/internal/infrastructure/token"
	"foodie/backend/internal/logging"
	authusecase "foodie/backend/internal/usecase/authorization"
	recipeusecase "foodie/backend/internal/usecase/recipe"
)

func main() {
	log := logging.NewDefault(slog.LevelInfo)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Error(ctx, "failed to run database migrations", "error", err)
		os.Exit(1)
	}

	tokenManager := token.NewJWTManager(cfg.TokenSecret, cfg.TokenMaxAge)
	hasher := password.NewArgon2Hasher()

	authService := authusecase.NewService(
		postgres.NewUserRepository(db.Pool),
		tokenManager,
		hasher,
		log.With("component", "authorization"),
	)
	recipeService := recipeusecase.NewService(postgres.NewRecipeRepository(db.Pool))

	server := httpserver.NewServer(cfg, authService, recipeService, log)
	log.Info(ctx, "HTTP server listening", "addr", server.Addr())

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info(ctx, "HTTP server closed")
				return
			}
			log.Error(ctx, "server error", "error", err)
			os.Exit(1)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(timeoutCtx); err != nil {
		log.Error(ctx, "graceful shutdown failed", "error", err)
	} else {
		log.Info(ctx, "graceful shutdown completed")
	}
}
