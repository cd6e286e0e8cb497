package controller

import (
	"pdf-upload-service/conf"
	"pdf-upload-service/controller/handler"
	"pdf-upload-service/controller/respond"
	uploaderDocs "pdf-upload-service/docs/uploader"
	"pdf-upload-service/service/upload_service"
	"pdf-upload-service/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupUploadRouter setup upload service router
func SetupUploadRouter(stor storage.Storage, uploadService *upload_service.ResumableUploadService) *gin.Engine {
	// Set Swagger host from config
	uploaderDocs.SwaggerInfouploader.Host = conf.Cfg.Upload.SwaggerBaseUrl

	// Create Gin engine
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Allow all origins, can be configured to specific domains
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Add timing middleware
	r.Use(respond.TimingMiddleware())

	// Create handlers
	uploadHandler := handler.NewUploadHandler(uploadService)
	fileHandler := handler.NewFileHandler(stor)

	// API v1 route group
	v1 := r.Group("/api/v1")
	{
		// Chunked upload routes
		uploads := v1.Group("/uploads")
		{
			// Start or resume an upload session
			uploads.POST("/init", uploadHandler.InitUpload)

			// Upload a single chunk
			uploads.POST("/chunk", uploadHandler.UploadChunk)

			// Assemble the chunks into the final object
			uploads.POST("/complete", uploadHandler.CompleteUpload)

			// Abort a session and discard its chunks
			uploads.POST("/abort", uploadHandler.AbortUpload)

			// List in-progress sessions
			uploads.GET("/pending", uploadHandler.ListPendingUploads)

			// Progress of one session
			uploads.GET("/status/:uploadId", uploadHandler.GetUploadStatus)

			// Sweep expired sessions
			uploads.POST("/cleanup", uploadHandler.CleanupExpired)
		}

		// Completed file routes
		files := v1.Group("/files")
		{
			// Stream file content by object key
			files.GET("/content", fileHandler.GetFileContent)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "uploader",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName("uploader")))

	// Static files and web pages
	r.StaticFile("/", "./web/upload.html")
	r.StaticFile("/upload.html", "./web/upload.html")
	r.StaticFile("/upload.js", "./web/upload.js")

	return r
}
