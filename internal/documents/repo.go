package documents

import "context"

// Repo defines persistence operations for documents. Each method is a single
// atomic statement against the store.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// Search returns documents whose file name or extracted text contains
	// query (case-insensitive), newest first, at most limit rows.
	Search(ctx context.Context, query string, limit int) ([]Document, error)
	Stats(ctx context.Context) (Stats, error)
}
