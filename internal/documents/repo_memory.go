package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs []Document
	byID map[string]int
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]int),
	}
}

// Create stores a new document. IDs must be unique.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[doc.ID]; exists {
		return ErrInvalidInput
	}
	r.byID[doc.ID] = len(r.docs)
	r.docs = append(r.docs, doc)
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return r.docs[idx], nil
}

// Search scans every document for a case-insensitive substring match.
func (r *MemoryRepo) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)

	r.mu.RLock()
	var out []Document
	for _, doc := range r.docs {
		if strings.Contains(strings.ToLower(doc.FileName), needle) ||
			strings.Contains(strings.ToLower(doc.ExtractedText), needle) {
			out = append(out, doc)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats counts stored and processed documents.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := Stats{TotalDocuments: int64(len(r.docs))}
	for _, doc := range r.docs {
		if doc.IsProcessed {
			stats.ProcessedDocuments++
		}
	}
	return stats, nil
}

var _ Repo = (*MemoryRepo)(nil)
