package chat

import "docpipe-backend/internal/documents"

// MaxHistoryTurns bounds how much prior conversation is forwarded to the model.
const MaxHistoryTurns = 10

// BulkContextChars is how much of each matched document goes into a bulk prompt.
const BulkContextChars = 500

// Turn is one prior exchange supplied by the caller.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DocumentInfo identifies the document an answer was grounded on.
type DocumentInfo struct {
	DocumentName     string             `json:"documentName"`
	DocumentPath     string             `json:"documentPath"`
	DocumentCategory documents.Category `json:"documentCategory"`
}

// Answer is a single-document chat result.
type Answer struct {
	Answer       string       `json:"answer"`
	DocumentInfo DocumentInfo `json:"documentInfo"`
	Sources      []string     `json:"sources"`
}

// BulkResult is a search-and-chat result. ChatResponse is nil when chat was
// not requested, not available, or failed.
type BulkResult struct {
	Documents    []documents.Document
	ChatResponse *string
}
