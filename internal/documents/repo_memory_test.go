package documents

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepoRejectsDuplicateID(t *testing.T) {
	repo := NewMemoryRepo()
	doc := Document{ID: "doc-1", FileName: "a.txt", UploadDate: time.Now()}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(context.Background(), doc); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMemoryRepoSearchIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepo()
	seedDocuments(t, repo,
		Document{FileName: "Permit_Application.pdf"},
		Document{FileName: "notes.txt", ExtractedText: "county PERMIT approved"},
	)
	docs, err := repo.Search(context.Background(), "permit", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(docs))
	}
	if docs[0].FileName != "notes.txt" {
		t.Fatalf("expected newest first, got %q", docs[0].FileName)
	}
}

func TestMemoryRepoHonorsCanceledContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Search(ctx, "any", 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
