package main

import (
	"context"
	"fmt"
	"log"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"github.com/serviconnect/backend/internal/config"
	"github.com/serviconnect/backend/internal/db"
	"github.com/serviconnect/backend/internal/logger"
	"github.com/serviconnect/backend/internal/repository"
	"github.com/serviconnect/backend/internal/service"
	"github.com/serviconnect/backend/internal/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(cfg.LogMode)
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("seed failed", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := db.Connect(cfg, lg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	catalog := service.DefaultBadgeCatalog()
	if cfg.BadgeIconDir != "" && cfg.StorageBucket != "" {
		if catalog, err = withUploadedIcons(ctx, cfg, catalog, lg); err != nil {
			return err
		}
	}

	svc := service.NewGamificationService(repository.NewGamificationRepository(conn), lg,
		service.WithBadgeCatalog(catalog))
	report, err := svc.SeedBadges(ctx)
	if err != nil {
		return err
	}
	for _, f := range report.Failed {
		lg.Warn("badge skipped", zap.String("badge", f.Name), zap.Error(f.Err))
	}
	lg.Info("seed completed", zap.Strings("upserted", report.Upserted))
	return nil
}

func withUploadedIcons(ctx context.Context, cfg *config.Config, catalog []service.BadgeDefinition, lg *zap.Logger) ([]service.BadgeDefinition, error) {
	var opts []option.ClientOption
	if cfg.StorageCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.StorageCredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	defer client.Close()

	slugs := make([]string, 0, len(catalog))
	for _, def := range catalog {
		slugs = append(slugs, def.Slug)
	}
	urls, err := storage.UploadBadgeIcons(ctx, storage.NewGCSUploader(client, cfg.StorageBucket), cfg.BadgeIconDir, slugs, lg)
	if err != nil {
		return nil, err
	}
	return service.ApplyIconURLs(catalog, urls), nil
}
