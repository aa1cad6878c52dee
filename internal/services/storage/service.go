package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/phambaophuc/image-task/internal/config"
	"go.uber.org/zap"
)

// ResultsPrefix is the URL prefix processed files are served under.
const ResultsPrefix = "/results"

// StorageService owns the two flat directories: raw uploads and processed
// outputs. Processed files may additionally be copied to a Mirror.
type StorageService struct {
	uploadDir    string
	processedDir string
	mirror       Mirror
	logger       *zap.Logger
}

func NewStorageService(cfg *config.Config, mirror Mirror, logger *zap.Logger) (*StorageService, error) {
	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.ProcessedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &StorageService{
		uploadDir:    cfg.Storage.UploadDir,
		processedDir: cfg.Storage.ProcessedDir,
		mirror:       mirror,
		logger:       logger,
	}, nil
}

func (s *StorageService) UploadDir() string {
	return s.uploadDir
}

func (s *StorageService) ProcessedDir() string {
	return s.processedDir
}

// ResultURL is the path a processed file can be fetched from.
func (s *StorageService) ResultURL(filename string) string {
	return ResultsPrefix + "/" + url.PathEscape(filepath.Base(filename))
}

// Publish copies a processed file to the configured mirror and returns its
// public URL. Without a mirror it returns an empty string.
func (s *StorageService) Publish(ctx context.Context, localPath string) (string, error) {
	if s.mirror == nil {
		return "", nil
	}
	return s.mirror.Upload(ctx, localPath)
}
