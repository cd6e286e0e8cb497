package respond

import (
	"time"

	"pdf-upload-service/service/upload_service"
)

// UploadSession describes an upload session returned by init or resume.
type UploadSession struct {
	UploadId        string `json:"uploadId" example:"2~abc123" description:"Backend upload session ID"`
	Key             string `json:"key" example:"uploads/24a7d564de30e1fd/book.pdf" description:"Object key for the upload"`
	ChunkSize       int64  `json:"chunkSize" example:"5242880" description:"Chunk size in bytes"`
	TotalChunks     int    `json:"totalChunks" example:"10" description:"Number of chunks for the full file"`
	CompletedChunks int    `json:"completedChunks" example:"4" description:"Chunks already stored by the backend"`
}

// ToUploadSession converts the service init result into a public response struct.
func ToUploadSession(result *upload_service.InitUploadResult) *UploadSession {
	if result == nil {
		return nil
	}
	return &UploadSession{
		UploadId:        result.UploadId,
		Key:             result.Key,
		ChunkSize:       result.ChunkSize,
		TotalChunks:     result.TotalChunks,
		CompletedChunks: result.CompletedChunks,
	}
}

// UploadChunkResponse describes one stored chunk.
type UploadChunkResponse struct {
	PartNumber int    `json:"partNumber" example:"3" description:"1-based chunk number"`
	ETag       string `json:"etag" example:"9b2cf535f27731c9" description:"Backend etag for the chunk"`
}

// CompletedUploadResponse describes a finished upload.
type CompletedUploadResponse struct {
	Key      string `json:"key" example:"uploads/24a7d564de30e1fd/book.pdf" description:"Final object key"`
	FileName string `json:"fileName" example:"book.pdf" description:"Decoded file name"`
}

// PendingUploadView represents the public view of an in-progress upload session.
type PendingUploadView struct {
	UploadId        string    `json:"uploadId"`
	Key             string    `json:"key"`
	Signature       string    `json:"signature"`
	FileName        string    `json:"fileName"`
	ChunkSize       int64     `json:"chunkSize"`
	CompletedChunks int       `json:"completedChunks"`
	BytesUploaded   int64     `json:"bytesUploaded"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PendingUploadListResponse wraps the pending session list.
type PendingUploadListResponse struct {
	Uploads []*PendingUploadView `json:"uploads"`
	Total   int                  `json:"total" example:"2" description:"Number of pending sessions"`
}

// ToPendingUploadView converts a service pending view to a public response struct.
func ToPendingUploadView(p *upload_service.PendingUpload) *PendingUploadView {
	if p == nil {
		return nil
	}
	return &PendingUploadView{
		UploadId:        p.UploadId,
		Key:             p.Key,
		Signature:       p.Signature,
		FileName:        p.FileName,
		ChunkSize:       p.ChunkSize,
		CompletedChunks: p.CompletedChunks,
		BytesUploaded:   p.BytesUploaded,
		CreatedAt:       p.CreatedAt,
	}
}

// ToPendingUploadList converts a slice of service pending views.
func ToPendingUploadList(pending []*upload_service.PendingUpload) []*PendingUploadView {
	result := make([]*PendingUploadView, 0, len(pending))
	for _, p := range pending {
		result = append(result, ToPendingUploadView(p))
	}
	return result
}

// CleanupResponse reports how many expired sessions a sweep reclaimed.
type CleanupResponse struct {
	Cleaned int `json:"cleaned" example:"3" description:"Sessions aborted by the sweep"`
}
