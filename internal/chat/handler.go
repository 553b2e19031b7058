package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Paths served by this handler, relative to the API group. Used to scope rate limiting.
const (
	PathChatWithDocument = "/chat-with-document"
	PathSearchAndChat    = "/search-and-chat"
)

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST(PathChatWithDocument, h.chatWithDocument)
	rg.POST(PathSearchAndChat, h.searchAndChat)
}

type chatRequest struct {
	DocumentID  string `json:"documentId"`
	Question    string `json:"question"`
	ChatHistory []Turn `json:"chatHistory"`
}

type searchAndChatRequest struct {
	Query    string `json:"query"`
	ChatMode bool   `json:"chatMode"`
}

func (h *Handler) chatWithDocument(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, documents.ErrorCodeValidation, "invalid request body", nil)
		return
	}
	if req.DocumentID != "" {
		c.Set("documentId", req.DocumentID)
	}

	answer, err := h.Svc.Ask(c.Request.Context(), req.DocumentID, req.Question, req.ChatHistory)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, documents.ErrorCodeValidation, "Document ID and question are required", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, documents.ErrorCodeNotFound, "Document not found", nil)
		case errors.Is(err, ErrServiceUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, ErrorCodeServiceUnavailable, "AI chat service is not configured", nil)
		case errors.Is(err, ErrAnswerFailed):
			respond.Error(c, http.StatusBadGateway, ErrorCodeAnswerFailed, "Failed to generate an answer", err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, documents.ErrorCodeInternal, "Chat failed", nil)
		}
		return
	}

	c.Set("documentCategory", string(answer.DocumentInfo.DocumentCategory))
	respond.OK(c, gin.H{
		"success":      true,
		"answer":       answer.Answer,
		"documentInfo": answer.DocumentInfo,
		"sources":      answer.Sources,
	})
}

func (h *Handler) searchAndChat(c *gin.Context) {
	var req searchAndChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, documents.ErrorCodeValidation, "invalid request body", nil)
		return
	}

	res, err := h.Svc.SearchAndChat(c.Request.Context(), req.Query, req.ChatMode)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, documents.ErrorCodeValidation, "Search query must be at least 2 characters", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, documents.ErrorCodeInternal, "Search failed", err.Error())
		}
		return
	}

	results := documents.ToSearchResults(res.Documents)
	respond.OK(c, gin.H{
		"success":      true,
		"documents":    results,
		"chatResponse": res.ChatResponse,
		"total":        len(results),
	})
}
