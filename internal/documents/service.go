package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docpipe-backend/internal/extract"
	"docpipe-backend/internal/llm"
	"docpipe-backend/internal/shared/metrics"
	"docpipe-backend/internal/shared/storage/object"
	"docpipe-backend/internal/shared/telemetry"
	"docpipe-backend/internal/shared/util"
)

// DefaultMaxUploadBytes is the upload ceiling used when Service.MaxUploadBytes is unset.
const DefaultMaxUploadBytes int64 = 100 << 20

// UploadPreviewChars bounds the text preview returned from Upload.
const UploadPreviewChars = 500

// Service is the ingestion gateway and search index over stored documents.
type Service struct {
	Repo           Repo
	Store          object.ObjectStore
	Classifier     Classifier
	MaxUploadBytes int64
	Extract        extract.Options
	Features       Features
	Now            func() time.Time
}

// UploadInput is one file submitted for ingestion.
type UploadInput struct {
	Data       []byte
	FileName   string
	MimeType   string
	UploadedBy string
}

// UploadResult is the persisted document plus what the caller sees of it.
type UploadResult struct {
	Document Document
	Preview  string
	Hints    *Hints
}

// Upload validates, extracts, classifies, and persists one document. Either the
// full record is written or nothing is.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" || len(in.Data) == 0 {
		metrics.IncUploadRejected("missing_file")
		return UploadResult{}, fmt.Errorf("%w: no file uploaded", ErrInvalidInput)
	}
	if size := int64(len(in.Data)); size > s.maxUploadBytes() {
		metrics.IncUploadRejected("too_large")
		return UploadResult{}, fmt.Errorf("%w: file size %d exceeds maximum of %d bytes", ErrPayloadTooLarge, size, s.maxUploadBytes())
	}

	now := s.now()
	filePath, err := util.UploadPath(now, fileName)
	if err != nil {
		metrics.IncUploadRejected("invalid_name")
		return UploadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	mimeType := extract.DetectMIME(in.Data, in.MimeType)

	extracted, err := extract.Extract(ctx, in.Data, mimeType, fileName, s.Extract)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: extract text: %v", ErrProcessing, err)
	}

	classification := s.classify(ctx, extracted.Text, fileName)

	uploadedBy := strings.TrimSpace(in.UploadedBy)
	if uploadedBy == "" {
		uploadedBy = SystemUploader
	}
	doc := Document{
		ID:               uuid.NewString(),
		FileName:         fileName,
		FileType:         mimeType,
		FileSize:         int64(len(in.Data)),
		FilePath:         filePath,
		ExtractedText:    extracted.Text,
		DocumentCategory: classification.Category,
		IsProcessed:      true,
		ProcessingStatus: StatusCompleted,
		UploadedBy:       uploadedBy,
		UploadDate:       now,
		LastModified:     now,
	}

	if s.Store != nil {
		if _, err := s.Store.Put(ctx, filePath, mimeType, bytes.NewReader(in.Data)); err != nil {
			return UploadResult{}, fmt.Errorf("%w: store file: %v", ErrProcessing, err)
		}
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discardObject(filePath)
		return UploadResult{}, fmt.Errorf("%w: save document: %v", ErrProcessing, err)
	}

	metrics.IncDocumentUploaded(string(doc.DocumentCategory))
	fields := map[string]any{
		"document_id":       doc.ID,
		"file_name":         doc.FileName,
		"file_type":         doc.FileType,
		"file_size":         doc.FileSize,
		"category":          doc.DocumentCategory,
		"extraction_method": extracted.Method,
		"text_truncated":    extracted.Truncated,
	}
	if !classification.Hints.Empty() {
		fields["hints"] = classification.Hints
	}
	telemetry.Info("document.ingested", fields)

	preview, truncated := extract.Truncate(doc.ExtractedText, UploadPreviewChars)
	if truncated {
		preview += "..."
	}
	return UploadResult{Document: doc, Preview: preview, Hints: classification.Hints}, nil
}

// Get returns a stored document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}

// classify never fails the upload: any classifier error degrades to CategoryOther.
func (s *Service) classify(ctx context.Context, text, fileName string) Classification {
	fallback := Classification{Category: CategoryOther}
	if s.Classifier == nil {
		metrics.IncClassificationFallback("not_configured")
		return fallback
	}
	prefix, _ := extract.Truncate(text, ClassifierPrefixChars)
	result, err := s.Classifier.Classify(ctx, prefix)
	if err != nil {
		reason := "llm_error"
		if errors.Is(err, llm.ErrNotConfigured) {
			reason = "not_configured"
		}
		metrics.IncClassificationFallback(reason)
		telemetry.Warn("classify.fallback", map[string]any{
			"file_name": fileName,
			"reason":    reason,
			"error":     err,
		})
		return fallback
	}
	result.Category = ParseCategory(string(result.Category))
	return result
}

func (s *Service) discardObject(filePath string) {
	if s.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Store.Delete(ctx, filePath); err != nil {
		telemetry.Error("document.discard_failed", map[string]any{
			"file_path": filePath,
			"error":     err,
		})
	}
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
