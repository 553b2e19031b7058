package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/llm"
	"docpipe-backend/internal/shared/metrics"
	"docpipe-backend/internal/shared/telemetry"
)

// Documents is the slice of the document service chat depends on.
type Documents interface {
	Get(ctx context.Context, id string) (documents.Document, error)
	Search(ctx context.Context, query string, limit int) ([]documents.Document, error)
}

// Service answers questions grounded on stored documents.
type Service struct {
	Docs Documents
	LLM  llm.Client
}

// Ask answers question from a single document. Unknown documents yield
// documents.ErrNotFound; a missing model yields ErrServiceUnavailable.
func (s *Service) Ask(ctx context.Context, documentID, question string, history []Turn) (Answer, error) {
	documentID = strings.TrimSpace(documentID)
	question = strings.TrimSpace(question)
	if documentID == "" || question == "" {
		metrics.IncChat("document", "invalid")
		return Answer{}, fmt.Errorf("%w: documentId and question are required", ErrInvalidInput)
	}

	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			metrics.IncChat("document", "not_found")
		}
		return Answer{}, err
	}
	if !llm.Available(s.LLM) {
		metrics.IncChat("document", "unavailable")
		return Answer{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, llm.ErrNotConfigured)
	}

	start := time.Now()
	reply, err := s.LLM.Complete(ctx, documentMessages(doc, question, history))
	metrics.ObserveLLM("chat_document", start, err)
	if err != nil {
		metrics.IncChat("document", "error")
		if errors.Is(err, llm.ErrNotConfigured) {
			return Answer{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return Answer{}, fmt.Errorf("%w: %v", ErrAnswerFailed, err)
	}

	metrics.IncChat("document", "ok")
	telemetry.Info("chat.answered", map[string]any{
		"document_id":   doc.ID,
		"category":      doc.DocumentCategory,
		"history_turns": len(history),
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return Answer{
		Answer: reply,
		DocumentInfo: DocumentInfo{
			DocumentName:     doc.FileName,
			DocumentPath:     doc.FilePath,
			DocumentCategory: doc.DocumentCategory,
		},
		Sources: []string{doc.FileName},
	}, nil
}

// SearchAndChat searches with the bulk limit and, when chatMode is set, asks the
// model about the matches. Chat failures leave ChatResponse nil; search failures
// are returned.
func (s *Service) SearchAndChat(ctx context.Context, query string, chatMode bool) (BulkResult, error) {
	docs, err := s.Docs.Search(ctx, query, documents.BulkSearchLimit)
	if err != nil {
		return BulkResult{}, err
	}
	result := BulkResult{Documents: docs}
	if !chatMode || len(docs) == 0 {
		return result, nil
	}
	if !llm.Available(s.LLM) {
		metrics.IncChat("bulk", "unavailable")
		return result, nil
	}

	start := time.Now()
	reply, err := s.LLM.Complete(ctx, bulkMessages(strings.TrimSpace(query), docs))
	metrics.ObserveLLM("chat_bulk", start, err)
	if err != nil {
		metrics.IncChat("bulk", "degraded")
		telemetry.Warn("chat.bulk_degraded", map[string]any{
			"matches": len(docs),
			"error":   err,
		})
		return result, nil
	}

	metrics.IncChat("bulk", "ok")
	result.ChatResponse = &reply
	return result, nil
}
