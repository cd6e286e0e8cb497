package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-upload-service/conf"
	"pdf-upload-service/controller"
	"pdf-upload-service/service/upload_service"
	"pdf-upload-service/storage"
)

var ENV string

func init() {
	flag.StringVar(&ENV, "env", "loc", "Environment: loc/dev/prod/example")
}

// @title           PDF Upload Service API
// @version         1.0
// @description     Stateless resumable chunked upload coordinator backed by multipart object storage
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:7280
// @BasePath  /api/v1

// @schemes https http

func main() {
	// Initialize all components
	cleanupProcessor, srv := initAll()

	// Start expired-session sweeper
	cleanupProcessor.Start()
	log.Println("Cleanup processor started successfully")

	// Start HTTP API service (in goroutine)
	go startServer(srv)
	log.Println("Upload API service started successfully")

	// Wait for shutdown signal
	waitForShutdown()

	log.Println("Shutting down upload service...")

	// Stop expired-session sweeper
	cleanupProcessor.Stop()

	// Gracefully shutdown HTTP service
	shutdownServer(srv)

	log.Println("Server exited")
}

// initEnv initialize environment
func initEnv() {
	if ENV == "loc" {
		conf.SystemEnvironmentEnum = conf.LocalEnvironmentEnum
	} else if ENV == "dev" {
		conf.SystemEnvironmentEnum = conf.DevEnvironmentEnum
	} else if ENV == "prod" {
		conf.SystemEnvironmentEnum = conf.ProdEnvironmentEnum
	} else if ENV == "example" {
		conf.SystemEnvironmentEnum = conf.ExampleEnvironmentEnum
	}
	fmt.Printf("Environment: %s\n", ENV)
}

// initAll initialize all components
func initAll() (*upload_service.CleanupProcessor, *http.Server) {
	// Parse command line parameters
	flag.Parse()

	// Set environment
	initEnv()

	// Initialize configuration
	if err := conf.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	log.Printf("Configuration loaded: env=%s, port=%s", ENV, conf.Cfg.Port)

	// Initialize storage
	stor, err := storage.NewStorage()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Storage initialized: type=%s", conf.Cfg.Storage.Type)

	// Create upload coordinator
	uploadService := upload_service.NewResumableUploadService(stor, conf.Cfg.Upload.ChunkSize)

	// Create expired-session sweeper
	cleanupProcessor := upload_service.NewCleanupProcessor(uploadService,
		conf.GetCleanupInterval(), conf.GetMaxSessionAge())

	// Setup upload service router
	router := controller.SetupUploadRouter(stor, uploadService)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + conf.Cfg.Port,
		Handler: router,
	}

	return cleanupProcessor, srv
}

// startServer start HTTP server
func startServer(srv *http.Server) {
	log.Printf("Upload API service starting on port %s...", conf.Cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// waitForShutdown wait for shutdown signal
func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

// shutdownServer gracefully shutdown server
func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
