package documents

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, file_name, file_type, file_size, file_path, extracted_text, document_category, is_processed, processing_status, uploaded_by, upload_date, last_modified`

// Create inserts a new document in a single statement.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    file_name,
    file_type,
    file_size,
    file_path,
    extracted_text,
    document_category,
    is_processed,
    processing_status,
    uploaded_by,
    upload_date,
    last_modified
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	uploadedBy := doc.UploadedBy
	if uploadedBy == "" {
		uploadedBy = SystemUploader
	}
	status := doc.ProcessingStatus
	if status == "" {
		status = StatusPending
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.FilePath,
		doc.ExtractedText,
		string(ParseCategory(string(doc.DocumentCategory))),
		doc.IsProcessed,
		string(status),
		uploadedBy,
		doc.UploadDate,
		doc.LastModified,
	)
	return err
}

// GetByID fetches a document by ID. Malformed IDs are reported as ErrNotFound.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	query := `SELECT ` + selectColumns + ` FROM documents WHERE id = $1 LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Search matches file name or extracted text with ILIKE, newest first.
func (r *PGRepo) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	stmt := `SELECT ` + selectColumns + `
FROM documents
WHERE file_name ILIKE $1 ESCAPE '\' OR extracted_text ILIKE $1 ESCAPE '\'
ORDER BY upload_date DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, stmt, likePattern(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Stats counts stored and processed documents.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_processed) FROM documents`
	var stats Stats
	if err := r.DB.QueryRowContext(ctx, query).Scan(&stats.TotalDocuments, &stats.ProcessedDocuments); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var category string
	var status string
	if err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.FileType,
		&doc.FileSize,
		&doc.FilePath,
		&doc.ExtractedText,
		&category,
		&doc.IsProcessed,
		&status,
		&doc.UploadedBy,
		&doc.UploadDate,
		&doc.LastModified,
	); err != nil {
		return Document{}, err
	}
	doc.DocumentCategory = ParseCategory(category)
	doc.ProcessingStatus = Status(status)
	return doc, nil
}

// likePattern wraps query in % after escaping LIKE metacharacters.
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}

var _ Repo = (*PGRepo)(nil)
