package handler

import (
	"errors"
	"io"
	"strconv"
	"time"

	"pdf-upload-service/common"
	"pdf-upload-service/conf"
	"pdf-upload-service/controller/respond"
	"pdf-upload-service/service/upload_service"

	"github.com/gin-gonic/gin"
)

// UploadHandler chunked upload handler
type UploadHandler struct {
	uploadService *upload_service.ResumableUploadService
}

// NewUploadHandler create upload handler instance
func NewUploadHandler(uploadService *upload_service.ResumableUploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// respondUploadError map coordinator errors onto HTTP status codes
func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrKeyTooLong),
		errors.Is(err, common.ErrMalformedKey),
		errors.Is(err, upload_service.ErrCapacityExceeded):
		respond.InvalidParam(c, err.Error())
	case errors.Is(err, upload_service.ErrSessionNotFound):
		respond.NotFound(c, err.Error())
	case errors.Is(err, upload_service.ErrExpiredSession):
		respond.Gone(c, err.Error())
	case errors.Is(err, upload_service.ErrCompletionFailed):
		respond.Conflict(c, err.Error())
	default:
		respond.ServerError(c, err.Error())
	}
}

// InitUploadRequest init or resume upload request
type InitUploadRequest struct {
	FileName     string `json:"fileName" binding:"required" example:"book.pdf" description:"Original file name"`
	FileSize     int64  `json:"fileSize" binding:"required,gt=0" example:"52428800" description:"Total file size in bytes"`
	LastModified int64  `json:"lastModified" binding:"required" example:"1700000000000" description:"File last-modified time in Unix milliseconds"`
}

// InitUpload start or resume an upload session
// @Summary      Init or resume upload
// @Description  Derive the file signature from name, size and last-modified time, then start a new upload session or resume the one the backend already tracks for the same file
// @Tags         Chunked Upload
// @Accept       json
// @Produce      json
// @Param        request  body      InitUploadRequest  true  "Init upload request"
// @Success      200      {object}  respond.Response{data=respond.UploadSession}
// @Failure      400      {object}  respond.Response  "Parameter error or capacity exceeded"
// @Failure      500      {object}  respond.Response  "Server error"
// @Router       /uploads/init [post]
func (h *UploadHandler) InitUpload(c *gin.Context) {
	var req InitUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, err.Error())
		return
	}

	signature := common.ComputeFileSignature(req.FileName, req.FileSize, req.LastModified)
	result, err := h.uploadService.InitOrResumeUpload(signature, req.FileName, req.FileSize)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, respond.ToUploadSession(result))
}

// UploadChunk store one chunk of an upload session
// @Summary      Upload chunk
// @Description  Store one chunk by its 1-based number. Chunks may arrive in any order, and retrying a chunk overwrites the earlier copy.
// @Tags         Chunked Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file    true  "Chunk bytes"
// @Param        uploadId    formData  string  true  "Upload session ID"
// @Param        key         formData  string  true  "Object key from init"
// @Param        partNumber  formData  int     true  "1-based chunk number"
// @Success      200  {object}  respond.Response{data=respond.UploadChunkResponse}
// @Failure      400  {object}  respond.Response  "Parameter error"
// @Failure      410  {object}  respond.Response  "Session expired"
// @Failure      500  {object}  respond.Response  "Server error"
// @Router       /uploads/chunk [post]
func (h *UploadHandler) UploadChunk(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respond.InvalidParam(c, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.ServerError(c, "failed to read chunk")
		return
	}

	uploadId := c.PostForm("uploadId")
	if uploadId == "" {
		respond.InvalidParam(c, "uploadId is required")
		return
	}

	key := c.PostForm("key")
	if key == "" {
		respond.InvalidParam(c, "key is required")
		return
	}

	partNumber, err := strconv.Atoi(c.PostForm("partNumber"))
	if err != nil || partNumber < 1 {
		respond.InvalidParam(c, "partNumber must be a positive integer")
		return
	}

	etag, err := h.uploadService.UploadPart(uploadId, key, partNumber, data)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, respond.UploadChunkResponse{
		PartNumber: partNumber,
		ETag:       etag,
	})
}

// CompleteUploadRequest complete upload request
type CompleteUploadRequest struct {
	UploadId string `json:"uploadId" binding:"required" example:"2~abc123" description:"Upload session ID"`
	Key      string `json:"key" binding:"required" example:"uploads/24a7d564de30e1fd/book.pdf" description:"Object key from init"`
}

// CompleteUpload assemble the uploaded chunks into the final object
// @Summary      Complete upload
// @Description  Assemble all stored chunks into the final object. Fails if any chunk is missing, leaving the session open so the gap can be filled and completion retried.
// @Tags         Chunked Upload
// @Accept       json
// @Produce      json
// @Param        request  body      CompleteUploadRequest  true  "Complete upload request"
// @Success      200      {object}  respond.Response{data=respond.CompletedUploadResponse}
// @Failure      400      {object}  respond.Response  "Parameter error"
// @Failure      404      {object}  respond.Response  "Session already completed or expired"
// @Failure      409      {object}  respond.Response  "Chunks missing"
// @Failure      500      {object}  respond.Response  "Server error"
// @Router       /uploads/complete [post]
func (h *UploadHandler) CompleteUpload(c *gin.Context) {
	var req CompleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, err.Error())
		return
	}

	result, err := h.uploadService.CompleteUpload(req.UploadId, req.Key)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, respond.CompletedUploadResponse{
		Key:      result.Key,
		FileName: result.FileName,
	})
}

// AbortUploadRequest abort upload request
type AbortUploadRequest struct {
	UploadId string `json:"uploadId" binding:"required" example:"2~abc123" description:"Upload session ID"`
	Key      string `json:"key" binding:"required" example:"uploads/24a7d564de30e1fd/book.pdf" description:"Object key from init"`
}

// AbortUpload abort an upload session
// @Summary      Abort upload
// @Description  Abort an in-progress upload session and discard its stored chunks. Aborting a session that is already gone succeeds.
// @Tags         Chunked Upload
// @Accept       json
// @Produce      json
// @Param        request  body      AbortUploadRequest  true  "Abort upload request"
// @Success      200      {object}  respond.Response  "Abort successful"
// @Failure      400      {object}  respond.Response  "Parameter error"
// @Failure      500      {object}  respond.Response  "Server error"
// @Router       /uploads/abort [post]
func (h *UploadHandler) AbortUpload(c *gin.Context) {
	var req AbortUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, err.Error())
		return
	}

	if err := h.uploadService.AbortUpload(req.UploadId, req.Key); err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, gin.H{"message": "Upload aborted successfully"})
}

// ListPendingUploads list in-progress upload sessions
// @Summary      List pending uploads
// @Description  List every in-progress upload session with its chunk progress, most recently started first
// @Tags         Chunked Upload
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.PendingUploadListResponse}
// @Failure      500  {object}  respond.Response  "Server error"
// @Router       /uploads/pending [get]
func (h *UploadHandler) ListPendingUploads(c *gin.Context) {
	pending, err := h.uploadService.ListPendingUploads()
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, respond.PendingUploadListResponse{
		Uploads: respond.ToPendingUploadList(pending),
		Total:   len(pending),
	})
}

// GetUploadStatus progress view for one upload session
// @Summary      Get upload status
// @Description  Get the chunk progress of a single upload session by its ID
// @Tags         Chunked Upload
// @Produce      json
// @Param        uploadId  path      string  true  "Upload session ID"
// @Success      200       {object}  respond.Response{data=respond.PendingUploadView}
// @Failure      400       {object}  respond.Response  "Parameter error"
// @Failure      404       {object}  respond.Response  "Session not found"
// @Failure      500       {object}  respond.Response  "Server error"
// @Router       /uploads/status/{uploadId} [get]
func (h *UploadHandler) GetUploadStatus(c *gin.Context) {
	uploadId := c.Param("uploadId")
	if uploadId == "" {
		respond.InvalidParam(c, "uploadId is required")
		return
	}

	status, err := h.uploadService.GetUploadStatus(uploadId)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, respond.ToPendingUploadView(status))
}

// CleanupRequest expired-session sweep request
type CleanupRequest struct {
	MaxAgeHours int `json:"maxAgeHours" example:"24" description:"Abort sessions older than this many hours (defaults to config)"`
}

// CleanupExpired sweep expired upload sessions
// @Summary      Cleanup expired uploads
// @Description  Abort every upload session older than the given age and report how many were reclaimed
// @Tags         Chunked Upload
// @Accept       json
// @Produce      json
// @Param        request  body      CleanupRequest  false  "Cleanup request"
// @Success      200      {object}  respond.Response{data=respond.CleanupResponse}
// @Failure      500      {object}  respond.Response  "Server error"
// @Router       /uploads/cleanup [post]
func (h *UploadHandler) CleanupExpired(c *gin.Context) {
	// Body is optional; zero value falls back to the configured age
	var req CleanupRequest
	_ = c.ShouldBindJSON(&req)

	maxAge := conf.GetMaxSessionAge()
	if req.MaxAgeHours > 0 {
		maxAge = time.Duration(req.MaxAgeHours) * time.Hour
	}

	cleaned, err := h.uploadService.CleanupExpired(maxAge)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.Success(c, respond.CleanupResponse{Cleaned: cleaned})
}
