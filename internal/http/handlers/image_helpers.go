package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-task/internal/models"
)

// === REQUEST PARSING ===

func (h *ImageHandler) parseTransformOptions(c *gin.Context) (models.TransformOptions, error) {
	opts := models.DefaultTransformOptions()

	flags := []struct {
		field string
		dst   *bool
	}{
		{"grayscale", &opts.Grayscale},
		{"resize", &opts.Resize},
		{"compress", &opts.Compress},
	}
	for _, f := range flags {
		value, err := h.parseBool(c.PostForm(f.field), f.field, *f.dst)
		if err != nil {
			return opts, err
		}
		*f.dst = value
	}

	if format := strings.TrimSpace(c.PostForm("target_format")); format != "" {
		opts.TargetFormat = strings.ToLower(format)
	}

	return opts, nil
}

func (h *ImageHandler) parseBool(value, fieldName string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: must be a boolean", fieldName)
	}

	return b, nil
}

// === FILE OPERATIONS ===

func (h *ImageHandler) getUploadedFile(c *gin.Context, paramKey string) (multipart.File, *multipart.FileHeader, error) {
	return c.Request.FormFile(paramKey)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
