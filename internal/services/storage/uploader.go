package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phambaophuc/image-task/pkg/utils"
	"go.uber.org/zap"
)

// SaveUpload writes the raw upload once and returns its path.
func (s *StorageService) SaveUpload(src io.Reader, filename string) (string, error) {
	path := filepath.Join(s.uploadDir, utils.GenerateUploadName(filename))

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	n, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	s.logger.Debug("Upload stored",
		zap.String("path", path),
		zap.Int64("size", n))
	return path, nil
}
