package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/circuitboard-backend/internal/http/response"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/services"
)

const (
	maxUploadBytes = 64 << 20
	maxAudioBytes  = 32 << 20
)

type ContentHandler struct {
	log     *logger.Logger
	content services.ContentService
}

func NewContentHandler(log *logger.Logger, content services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:     log.With("handler", "ContentHandler"),
		content: content,
	}
}

// POST /api/circuits/:id/content
// Multipart upload: "files" parts plus optional "title"/"description"
// values applied when the batch has a single file.
func (h *ContentHandler) Upload(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	circuitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	form := c.Request.MultipartForm
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.RespondError(c, http.StatusBadRequest, "no_files", nil)
		return
	}

	title := firstValue(form.Value, "title")
	description := firstValue(form.Value, "description")

	files := make([]services.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		_ = f.Close()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
			return
		}
		uf := services.UploadFile{Filename: fh.Filename, Data: data}
		if len(fileHeaders) == 1 {
			uf.Title = title
			uf.Description = description
		}
		files = append(files, uf)
	}

	items, err := h.content.UploadDocuments(c.Request.Context(), rd.UserID, circuitID, files)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, items)
}

// POST /api/circuits/:id/content/transcribe
// Raw audio body; mime type from Content-Type.
func (h *ContentHandler) Transcribe(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	circuitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_audio", err)
		return
	}
	mimeType := strings.TrimSpace(c.GetHeader("Content-Type"))

	item, err := h.content.Transcribe(c.Request.Context(), rd.UserID, circuitID, audio, mimeType)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, item)
}

// POST /api/content/:id/archive
func (h *ContentHandler) Archive(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	contentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	item, err := h.content.Archive(c.Request.Context(), rd.UserID, contentID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, item)
}

// GET /api/circuits/:id/content
func (h *ContentHandler) ListActive(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	circuitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.content.ListActive(c.Request.Context(), rd.UserID, circuitID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, items)
}

// GET /api/content/:id/download
func (h *ContentHandler) Download(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	contentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	url, err := h.content.DownloadURL(c.Request.Context(), rd.UserID, contentID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": url})
}

func firstValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}
