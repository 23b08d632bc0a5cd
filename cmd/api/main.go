package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/serviconnect/backend/internal/config"
	"github.com/serviconnect/backend/internal/db"
	"github.com/serviconnect/backend/internal/logger"
	appmw "github.com/serviconnect/backend/internal/middleware"
	"github.com/serviconnect/backend/internal/server"
	"go.uber.org/zap"
)

var (
	gitSHA    = "dev"
	buildTime = ""
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	lg := logger.New(cfg.LogMode)
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth, err := newAuth(ctx, cfg, lg)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg, lg)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		lg.Error("auto migrate error", zap.Error(err))
	}

	srv := server.New(conn, lg, server.Options{
		Auth:         auth,
		StrictErrors: cfg.GamificationStrictErrors,
		GitSHA:       gitSHA,
		BuildTime:    buildTime,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", zap.String("addr", addr))
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	lg.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// newAuth refuses to build header-trusting auth unless AUTH_DEV_MODE is on.
func newAuth(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*appmw.AuthMiddleware, error) {
	auth, err := appmw.NewAuthMiddleware(ctx, cfg.FirebaseProjectID, cfg.AuthDevMode)
	if err != nil {
		return nil, fmt.Errorf("auth setup: %w", err)
	}
	if auth.DevMode() {
		lg.Warn("AUTH_DEV_MODE is on; trusting the X-User-Id header")
	}
	return auth, nil
}
