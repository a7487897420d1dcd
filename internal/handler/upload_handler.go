package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
)

const maxDeleteBody = 1 << 10

// UploadHandler handles the document upload proxy endpoints.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload handles POST /api/upload
// @Summary Upload application documents
// @Description Upload one or more files into a document category. Each file may carry a client correlation id,
// @Description sent as repeated correlation_id fields in the same order as the files. Rejected files are
// @Description reported in errors; storage failures land in failed and can be retried.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload"
// @Param category formData string true "Document category" Enums(claims, abstract, drawings, supporting)
// @Param correlation_id formData string false "Correlation id per file"
// @Param application_no formData string false "Application number the files belong to"
// @Param auto_upload formData bool false "Upload immediately (default true); false only stages the files"
// @Success 200 {object} Response{data=service.UploadResult} "Category state after the upload"
// @Failure 400 {object} ErrorResponseBody "Missing files or invalid category"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	batch, ok := h.bindBatch(c)
	if !ok {
		return
	}

	result, err := h.uploadService.Upload(c.Request.Context(), batch)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Retry handles POST /api/upload/retry
// @Summary Retry failed uploads
// @Description Re-send files whose earlier upload failed. Each file must carry the correlation id of its failed record.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to re-send"
// @Param category formData string true "Document category"
// @Param correlation_id formData string true "Correlation id per file"
// @Param application_no formData string false "Application number the files belong to"
// @Success 200 {object} Response{data=service.UploadResult} "Category state after the retry"
// @Failure 400 {object} ErrorResponseBody "Missing files or invalid category"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /upload/retry [post]
func (h *UploadHandler) Retry(c *gin.Context) {
	batch, ok := h.bindBatch(c)
	if !ok {
		return
	}
	for _, f := range batch.Files {
		if f.CorrelationID == "" {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "correlation_id is required for every retried file")
			return
		}
	}

	result, err := h.uploadService.Retry(c.Request.Context(), batch)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Delete handles DELETE /api/upload
// @Summary Delete an uploaded file
// @Description The request body is the raw server file id. The record is kept when storage deletion fails.
// @Tags upload
// @Accept plain
// @Produce json
// @Param id body string true "File id"
// @Success 200 {object} Response{data=MessageResponse} "File deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid file id"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Failure 409 {object} ErrorResponseBody "File belongs to a submitted application"
// @Failure 502 {object} ErrorResponseBody "Storage deletion failed"
// @Security BearerAuth
// @Router /upload [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDeleteBody))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read request body")
		return
	}
	fileID, err := parseRawFileID(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "body must be a file id")
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), userID, fileID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "file deleted"})
}

// Download handles GET /api/upload/download/:id
// @Summary Download an uploaded file
// @Description Streams the stored file. Applicants may download their own files; admins may download any.
// @Tags upload
// @Produce octet-stream
// @Param id path string true "File id"
// @Success 200 {file} file "File content"
// @Failure 400 {object} ErrorResponseBody "Invalid file id"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Security BearerAuth
// @Router /upload/download/{id} [get]
func (h *UploadHandler) Download(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file ID")
		return
	}

	file, err := h.uploadService.Download(c.Request.Context(), userID, role, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer func() { _ = file.Body.Close() }()

	c.DataFromReader(http.StatusOK, file.Size, file.Meta.ContentType, file.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename=%q`, file.Meta.OriginalName),
	})
}

// List handles GET /api/upload
// @Summary List uploaded files
// @Tags upload
// @Produce json
// @Param category query string true "Document category"
// @Param application_no query string false "Application number"
// @Success 200 {object} Response{data=service.UploadResult} "Uploaded and failed files"
// @Failure 400 {object} ErrorResponseBody "Invalid category"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /upload [get]
func (h *UploadHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	category := domain.DocumentCategory(c.Query("category"))
	if !category.IsValid() {
		HandleError(c, domain.ErrInvalidCategory)
		return
	}

	result, err := h.uploadService.List(c.Request.Context(), userID, c.Query("application_no"), category)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// bindBatch reads the multipart upload form. Files come from the "files"
// field (or "file" for single uploads) and correlation ids pair with them by
// position.
func (h *UploadHandler) bindBatch(c *gin.Context) (service.UploadBatch, bool) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return service.UploadBatch{}, false
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart form with files is required")
		return service.UploadBatch{}, false
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one file is required")
		return service.UploadBatch{}, false
	}

	category := domain.DocumentCategory(c.PostForm("category"))
	if !category.IsValid() {
		HandleError(c, domain.ErrInvalidCategory)
		return service.UploadBatch{}, false
	}

	autoUpload := true
	if v := c.PostForm("auto_upload"); v != "" {
		autoUpload, err = strconv.ParseBool(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "auto_upload must be a boolean")
			return service.UploadBatch{}, false
		}
	}

	correlationIDs := form.Value["correlation_id"]
	files := make([]service.IncomingFile, 0, len(headers))
	for i, fh := range headers {
		var correlationID string
		if i < len(correlationIDs) {
			correlationID = strings.TrimSpace(correlationIDs[i])
		}
		files = append(files, incomingFile(fh, correlationID))
	}

	return service.UploadBatch{
		OwnerID:       userID,
		ApplicationNo: strings.TrimSpace(c.PostForm("application_no")),
		Category:      category,
		AutoUpload:    autoUpload,
		Files:         files,
	}, true
}

func incomingFile(fh *multipart.FileHeader, correlationID string) service.IncomingFile {
	return service.IncomingFile{
		CorrelationID: correlationID,
		Name:          fh.Filename,
		Size:          fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// parseRawFileID accepts a bare id or a JSON string literal.
func parseRawFileID(raw []byte) (uuid.UUID, error) {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		var quoted string
		if err := json.Unmarshal([]byte(s), &quoted); err != nil {
			return uuid.Nil, err
		}
		s = quoted
	}
	return uuid.Parse(s)
}
