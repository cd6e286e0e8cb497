package upload_service

import (
	"log"
	"time"
)

// CleanupProcessor periodically aborts upload sessions that were started but
// never completed, so the backend stops billing for their orphaned parts
type CleanupProcessor struct {
	uploadService *ResumableUploadService
	stopChan      chan struct{}
	interval      time.Duration
	maxAge        time.Duration
}

// NewCleanupProcessor create cleanup processor instance. Non-positive values
// fall back to an hourly sweep of sessions older than 24 hours.
func NewCleanupProcessor(uploadService *ResumableUploadService, interval, maxAge time.Duration) *CleanupProcessor {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &CleanupProcessor{
		uploadService: uploadService,
		stopChan:      make(chan struct{}),
		interval:      interval,
		maxAge:        maxAge,
	}
}

// Start start the cleanup processor
func (cp *CleanupProcessor) Start() {
	log.Println("Cleanup processor started")
	go cp.run()
}

// Stop stop the cleanup processor
func (cp *CleanupProcessor) Stop() {
	log.Println("Stopping cleanup processor...")
	close(cp.stopChan)
}

// run main loop: one sweep at startup, then one per interval
func (cp *CleanupProcessor) run() {
	ticker := time.NewTicker(cp.interval)
	defer ticker.Stop()

	cp.cleanupExpiredUploads()

	for {
		select {
		case <-cp.stopChan:
			log.Println("Cleanup processor stopped")
			return
		case <-ticker.C:
			cp.cleanupExpiredUploads()
		}
	}
}

// cleanupExpiredUploads abort sessions older than the configured age
func (cp *CleanupProcessor) cleanupExpiredUploads() {
	beforeTime := time.Now().Add(-cp.maxAge)

	log.Printf("Starting cleanup of upload sessions started before %s", beforeTime.Format(time.RFC3339))

	cleanedCount, err := cp.uploadService.CleanupExpired(cp.maxAge)
	if err != nil {
		log.Printf("Failed to cleanup expired uploads: %v", err)
		return
	}

	if cleanedCount > 0 {
		log.Printf("Cleaned up %d expired upload sessions", cleanedCount)
	}
}
