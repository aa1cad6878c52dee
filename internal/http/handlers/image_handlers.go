package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-task/internal/config"
	"github.com/phambaophuc/image-task/internal/models"
	"github.com/phambaophuc/image-task/internal/services/queue"
	"go.uber.org/zap"
)

const (
	fileParamKey = "file"

	// multipart overhead allowed on top of MAX_FILE_SIZE before the body is cut off
	formOverhead = 1 << 20
)

type uploadStore interface {
	SaveUpload(src io.Reader, filename string) (string, error)
}

type healthReporter interface {
	HealthCheck(ctx context.Context) map[string]string
}

type ImageHandler struct {
	scheduler queue.Scheduler
	uploads   uploadStore
	checks    []healthReporter
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	scheduler queue.Scheduler,
	uploads uploadStore,
	logger *zap.Logger,
	config *config.Config,
	checks ...healthReporter,
) *ImageHandler {
	return &ImageHandler{
		scheduler: scheduler,
		uploads:   uploads,
		checks:    checks,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

// Upload stores the raw file and schedules the transform job.
func (h *ImageHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Storage.MaxFileSize+formOverhead)

	file, header, err := h.getUploadedFile(c, fileParamKey)
	if err != nil {
		if isBodyTooLarge(err) {
			h.respondError(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	if header.Size > h.config.Storage.MaxFileSize {
		h.respondError(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	opts, err := h.parseTransformOptions(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	sourcePath, err := h.uploads.SaveUpload(file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to save upload",
			zap.String("filename", header.Filename),
			zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	taskID, err := h.scheduler.Submit(c.Request.Context(), sourcePath, header.Filename, opts)
	if err != nil {
		h.logger.Error("Failed to submit job",
			zap.String("filename", header.Filename),
			zap.Error(err))
		h.respondError(c, http.StatusServiceUnavailable, "Failed to schedule processing")
		return
	}

	h.logger.Info("Upload accepted",
		zap.String("job_id", taskID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))

	c.JSON(http.StatusOK, models.UploadResponse{
		TaskID:   taskID,
		Filename: header.Filename,
	})
}

// Status reports the job state; the result stays null until the job is done.
func (h *ImageHandler) Status(c *gin.Context) {
	taskID := c.Param("task_id")

	job, err := h.scheduler.Status(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			h.respondError(c, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("Failed to get job status",
			zap.String("job_id", taskID),
			zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to get task status")
		return
	}

	resp := models.StatusResponse{Status: string(job.State)}
	if job.State.Terminal() {
		resp.Result = job.Result
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ImageHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "Image processing service is running",
	})
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)
	for _, check := range h.checks {
		for name, status := range check.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	}
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}
