package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phambaophuc/image-task/internal/config"
	"github.com/phambaophuc/image-task/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
)

type SupabaseMirror struct {
	sbClient *storage_go.Client
	bucket   string
}

func NewSupabaseMirror(cfg config.SupabaseConfig) *SupabaseMirror {
	return &SupabaseMirror{
		sbClient: storage_go.NewClient(cfg.URL+"/storage/v1", cfg.KEY, nil),
		bucket:   cfg.BUCKET,
	}
}

func (m *SupabaseMirror) Name() string {
	return "supabase"
}

// Upload uploads file to Supabase Storage
func (m *SupabaseMirror) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open processed file: %w", err)
	}
	defer f.Close()

	name := filepath.Base(localPath)
	key := utils.GenerateStorageKey(name)
	contentType := utils.ContentType(name)
	if _, err := m.sbClient.UploadFile(m.bucket, key, f, storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := m.sbClient.GetPublicUrl(m.bucket, key)
	return publicURL.SignedURL, nil
}

func (m *SupabaseMirror) HealthCheck(ctx context.Context) string {
	if _, err := m.sbClient.ListFiles(m.bucket, "", storage_go.FileSearchOptions{}); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
