package storage

import (
	"context"
	"fmt"
	"os"
)

// HealthCheck checks both directories and the mirror, if any.
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	status["disk"] = "healthy"
	for _, dir := range []string{s.uploadDir, s.processedDir} {
		info, err := os.Stat(dir)
		if err != nil {
			status["disk"] = "unhealthy: " + err.Error()
			break
		}
		if !info.IsDir() {
			status["disk"] = fmt.Sprintf("unhealthy: %s is not a directory", dir)
			break
		}
	}

	if s.mirror == nil {
		status["mirror"] = "not configured"
	} else {
		status[s.mirror.Name()] = s.mirror.HealthCheck(ctx)
	}

	return status
}
