package handler_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/handler"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

func multipartUpload(t *testing.T, fields map[string][]string, files map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler_Upload(t *testing.T) {
	mockUpload := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(mockUpload)
	userID := uuid.New()

	mockUpload.On("Upload", mock.Anything, mock.MatchedBy(func(b service.UploadBatch) bool {
		if b.OwnerID != userID || b.Category != domain.CategoryAbstract || b.AutoUpload || len(b.Files) != 1 {
			return false
		}
		f := b.Files[0]
		body, err := f.Open()
		if err != nil {
			return false
		}
		defer body.Close()
		content, _ := io.ReadAll(body)
		return f.CorrelationID == "cid-1" && f.Name == "abstract.pdf" && string(content) == "%PDF-1.7"
	})).Return(&service.UploadResult{Category: domain.CategoryAbstract}, nil)

	body, contentType := multipartUpload(t, map[string][]string{
		"category":       {"abstract"},
		"auto_upload":    {"false"},
		"correlation_id": {"cid-1"},
		"application_no": {"PA-2026-000001"},
	}, map[string]string{"abstract.pdf": "%PDF-1.7"})
	c, w := newContext(http.MethodPost, "/api/upload", body, &userID, domain.RoleApplicant)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUpload.AssertExpectations(t)
}

func TestUploadHandler_Upload_InvalidCategory(t *testing.T) {
	mockUpload := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(mockUpload)
	userID := uuid.New()

	body, contentType := multipartUpload(t, map[string][]string{"category": {"invoices"}},
		map[string]string{"a.pdf": "%PDF-1.7"})
	c, w := newContext(http.MethodPost, "/api/upload", body, &userID, domain.RoleApplicant)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CATEGORY", decode(t, w).Error.Code)
}

func TestUploadHandler_Retry_RequiresCorrelationID(t *testing.T) {
	mockUpload := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(mockUpload)
	userID := uuid.New()

	body, contentType := multipartUpload(t, map[string][]string{"category": {"claims"}},
		map[string]string{"claims.pdf": "%PDF-1.7"})
	c, w := newContext(http.MethodPost, "/api/upload/retry", body, &userID, domain.RoleApplicant)
	c.Request.Header.Set("Content-Type", contentType)

	h.Retry(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUpload.AssertNotCalled(t, "Retry", mock.Anything, mock.Anything)
}

func TestUploadHandler_Delete_RawBody(t *testing.T) {
	userID := uuid.New()
	fileID := uuid.New()

	for name, raw := range map[string]string{
		"bare id":     fileID.String(),
		"json string": `"` + fileID.String() + `"` + "\n",
	} {
		t.Run(name, func(t *testing.T) {
			mockUpload := new(mocks.MockUploadService)
			h := handler.NewUploadHandler(mockUpload)
			mockUpload.On("Delete", mock.Anything, userID, fileID).Return(nil)

			c, w := newContext(http.MethodDelete, "/api/upload", strings.NewReader(raw), &userID, domain.RoleApplicant)
			h.Delete(c)

			assert.Equal(t, http.StatusOK, w.Code)
			mockUpload.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_Delete_InvalidBody(t *testing.T) {
	mockUpload := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(mockUpload)
	userID := uuid.New()

	c, w := newContext(http.MethodDelete, "/api/upload", strings.NewReader(`{"id":1}`), &userID, domain.RoleApplicant)
	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
}

func TestUploadHandler_Download(t *testing.T) {
	mockUpload := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(mockUpload)
	userID := uuid.New()
	fileID := uuid.New()

	mockUpload.On("Download", mock.Anything, userID, domain.RoleApplicant, fileID).Return(&service.DownloadedFile{
		Meta: &domain.FileMeta{ID: fileID, OriginalName: "claims.pdf", ContentType: "application/pdf"},
		Body: io.NopCloser(strings.NewReader("%PDF-1.7")),
		Size: 8,
	}, nil)

	c, w := newContext(http.MethodGet, "/api/upload/download/"+fileID.String(), nil, &userID, domain.RoleApplicant)
	c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="claims.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}
