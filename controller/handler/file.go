package handler

import (
	"errors"
	"net/http"
	"strings"

	"pdf-upload-service/common"
	"pdf-upload-service/controller/respond"
	"pdf-upload-service/storage"

	"github.com/gin-gonic/gin"
)

// FileHandler stored file handler
type FileHandler struct {
	storage storage.Storage
}

// NewFileHandler create file handler instance
func NewFileHandler(stor storage.Storage) *FileHandler {
	return &FileHandler{
		storage: stor,
	}
}

// GetFileContent stream a completed file from storage
// @Summary      Get file content
// @Description  Stream the assembled object of a completed upload by its object key
// @Tags         Files
// @Produce      application/octet-stream
// @Param        key  query     string  true  "Object key (uploads/{signature}/{fileName})"
// @Success      200  {file}    binary
// @Failure      400  {object}  respond.Response  "Parameter error"
// @Failure      404  {object}  respond.Response  "File not found"
// @Failure      500  {object}  respond.Response  "Server error"
// @Router       /files/content [get]
func (h *FileHandler) GetFileContent(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		respond.InvalidParam(c, "key is required")
		return
	}

	_, fileName, err := common.DecodeUploadKey(key)
	if err != nil {
		respond.InvalidParam(c, err.Error())
		return
	}

	content, err := h.storage.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.NotFound(c, "file not found")
			return
		}
		respond.ServerError(c, err.Error())
		return
	}

	contentType := "application/pdf"
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		contentType = http.DetectContentType(content)
	}

	// Set response headers
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+fileName+"\"")
	c.Data(200, contentType, content)
}
