package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const badgeIconPrefix = "badges/icons"

// UploadBadgeIcons uploads <dir>/<slug>.png for every slug and returns the
// public URL per slug. Slugs without an icon file are skipped; any other
// failure cancels the remaining uploads.
func UploadBadgeIcons(ctx context.Context, up Uploader, dir string, slugs []string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		mu   sync.Mutex
		urls = make(map[string]string, len(slugs))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		slug := slug
		eg.Go(func() error {
			path := filepath.Join(dir, slug+".png")
			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("badge icon missing", zap.String("slug", slug), zap.String("path", path))
				return nil
			}
			if err != nil {
				return fmt.Errorf("read icon %s: %w", slug, err)
			}
			u, err := up.Upload(egCtx, badgeIconPrefix+"/"+slug+".png", "image/png", data)
			if err != nil {
				return fmt.Errorf("upload icon %s: %w", slug, err)
			}
			mu.Lock()
			urls[slug] = u
			mu.Unlock()
			logger.Info("badge icon uploaded", zap.String("slug", slug), zap.String("url", u))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
