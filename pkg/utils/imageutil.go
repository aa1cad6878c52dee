package utils

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SanitizeFilename strips any directory components from a client supplied name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == "" {
		return "upload"
	}
	return base
}

// GenerateUploadName prefixes the upload with a short random id so two
// uploads with the same name never share a path.
func GenerateUploadName(filename string) string {
	return fmt.Sprintf("%s_%s", uuid.New().String()[:8], SanitizeFilename(filename))
}

// GenerateFilename derives the processed output name for a job.
func GenerateFilename(jobID, filename string) string {
	return fmt.Sprintf("processed_%s_%s", jobID, SanitizeFilename(filename))
}

func GenerateStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	timestamp := time.Now().Unix()
	uuid := uuid.New().String()[:8]

	return fmt.Sprintf("processed/%s_%d_%s%s", name, timestamp, uuid, ext)
}

// ContentType guesses the MIME type from the file extension.
func ContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
