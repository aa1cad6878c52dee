package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-task/internal/http/handlers"
	"github.com/phambaophuc/image-task/internal/http/middleware"
	"github.com/phambaophuc/image-task/internal/services/storage"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	processedDir string
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	processedDir string,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		processedDir: processedDir,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	router.GET("/", r.imageHandler.Root)
	router.GET("/health", r.imageHandler.HealthCheck)

	upload := router.Group("/upload", middleware.ValidateContentType())
	{
		upload.POST("", r.imageHandler.Upload)
		upload.POST("/", r.imageHandler.Upload)
	}

	router.GET("/status/:task_id", r.imageHandler.Status)

	router.Static(storage.ResultsPrefix, r.processedDir)

	return router
}
