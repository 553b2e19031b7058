package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docpipe-backend/internal/extract"
)

const (
	DefaultSearchLimit = 20
	BulkSearchLimit    = 50
	MaxSearchLimit     = 100
	MinQueryLength     = 2
	SearchPreviewChars = 200
)

// SearchResult is the outward projection of a matched document.
type SearchResult struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Category   Category  `json:"category"`
	UploadDate time.Time `json:"uploadDate"`
	Path       string    `json:"path"`
	Preview    string    `json:"preview"`
}

// Search rejections; both match ErrInvalidInput.
var (
	ErrQueryTooShort = fmt.Errorf("%w: search query must be at least %d characters", ErrInvalidInput, MinQueryLength)
	ErrLimitTooLarge = fmt.Errorf("%w: search limit must not exceed %d", ErrInvalidInput, MaxSearchLimit)
)

// Search returns documents whose name or extracted text contains query, newest
// first. A non-positive limit means DefaultSearchLimit; one above MaxSearchLimit
// is rejected.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return nil, ErrLimitTooLarge
	}
	docs, err := s.Repo.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// ToSearchResult projects a document for search responses.
func ToSearchResult(doc Document) SearchResult {
	preview, _ := extract.Truncate(doc.ExtractedText, SearchPreviewChars)
	return SearchResult{
		ID:         doc.ID,
		Name:       doc.FileName,
		Type:       doc.FileType,
		Category:   doc.DocumentCategory,
		UploadDate: doc.UploadDate,
		Path:       doc.FilePath,
		Preview:    preview + "...",
	}
}

// ToSearchResults projects a slice of documents, never returning nil.
func ToSearchResults(docs []Document) []SearchResult {
	out := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToSearchResult(doc))
	}
	return out
}
