package storage

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-task/internal/config"
)

// Mirror publishes processed files to remote object storage.
type Mirror interface {
	Name() string
	Upload(ctx context.Context, localPath string) (string, error)
	HealthCheck(ctx context.Context) string
}

// NewMirror picks the mirror from config: Supabase first, then S3/MinIO.
// It returns nil when neither is configured.
func NewMirror(ctx context.Context, cfg *config.Config) (Mirror, error) {
	switch {
	case cfg.Supabase.URL != "":
		return NewSupabaseMirror(cfg.Supabase), nil
	case cfg.S3.Endpoint != "":
		m, err := NewMinioMirror(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 mirror: %w", err)
		}
		return m, nil
	}
	return nil, nil
}
