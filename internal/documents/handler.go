package documents

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docpipe-backend/internal/shared/server/middleware"
	"docpipe-backend/internal/shared/server/respond"
)

// multipartOverhead is the slack allowed above the file limit for form framing.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-document", h.upload)
	rg.POST("/search-documents", h.search)
	rg.GET("/processing-capabilities", h.capabilities)
	rg.GET("/documents/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	limit := h.Svc.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "File too large", fileSizeDetails(limit))
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "No file uploaded", nil)
		return
	}
	if fileHeader.Size > limit {
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "File too large", fileSizeDetails(limit))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return
	}

	uploadedBy := strings.TrimSpace(c.PostForm("uploadedBy"))
	if uploadedBy == "" {
		uploadedBy = middleware.ActorFromContext(c)
	}

	res, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		Data:       data,
		FileName:   fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		UploadedBy: uploadedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPayloadTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "File too large", fileSizeDetails(limit))
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeProcessing, "Failed to upload document", err.Error())
		}
		return
	}

	c.Set("documentId", res.Document.ID)
	c.Set("documentCategory", string(res.Document.DocumentCategory))
	respond.OK(c, toUploadResponse(res))
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	docs, err := h.Svc.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrLimitTooLarge):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, fmt.Sprintf("Search limit must not exceed %d", MaxSearchLimit), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Search query must be at least 2 characters", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Search failed", err.Error())
		}
		return
	}

	results := ToSearchResults(docs)
	respond.OK(c, searchResponse{Success: true, Documents: results, Total: len(results)})
}

func (h *Handler) capabilities(c *gin.Context) {
	caps := h.Svc.Capabilities(c.Request.Context())
	respond.OK(c, gin.H{
		"success":        true,
		"supportedTypes": caps.SupportedTypes,
		"features":       caps.Features,
		"stats":          caps.Stats,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "Document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch document", nil)
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.OK(c, gin.H{"success": true, "document": toDocumentResponse(doc)})
}

func fileSizeDetails(limit int64) gin.H {
	return gin.H{"maxFileSize": formatBytes(limit), "maxFileSizeBytes": limit}
}
