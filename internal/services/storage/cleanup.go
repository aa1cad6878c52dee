package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Cleanup removes uploads and processed files last modified before now-maxAge.
// A non-positive maxAge disables retention.
func (s *StorageService) Cleanup(now time.Time, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := now.Add(-maxAge)

	removed := 0
	var errs []error
	for _, dir := range []string{s.uploadDir, s.processedDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", dir, err))
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}
	return removed, errors.Join(errs...)
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (s *StorageService) StartCleanup(ctx context.Context, interval, maxAge time.Duration) error {
	if maxAge <= 0 || interval <= 0 {
		s.logger.Info("File retention disabled")
		return nil
	}

	s.logger.Info("File retention enabled",
		zap.Duration("max_age", maxAge),
		zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed, err := s.Cleanup(now, maxAge)
			if err != nil {
				s.logger.Warn("Cleanup finished with errors", zap.Error(err))
			}
			if removed > 0 {
				s.logger.Info("Expired files removed", zap.Int("count", removed))
			}
		}
	}
}
