package documents

import "time"

type uploadResponse struct {
	Success       bool     `json:"success"`
	DocumentID    string   `json:"documentId"`
	FileName      string   `json:"fileName"`
	FileType      string   `json:"fileType"`
	FilePath      string   `json:"filePath"`
	Category      Category `json:"category"`
	FileSize      int64    `json:"fileSize"`
	ExtractedText string   `json:"extractedText"`
	Analysis      *Hints   `json:"analysis,omitempty"`
	Message       string   `json:"message"`
}

func toUploadResponse(res UploadResult) uploadResponse {
	resp := uploadResponse{
		Success:       true,
		DocumentID:    res.Document.ID,
		FileName:      res.Document.FileName,
		FileType:      res.Document.FileType,
		FilePath:      res.Document.FilePath,
		Category:      res.Document.DocumentCategory,
		FileSize:      res.Document.FileSize,
		ExtractedText: res.Preview,
		Message:       "Document uploaded and processed successfully",
	}
	if !res.Hints.Empty() {
		resp.Analysis = res.Hints
	}
	return resp
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Success   bool           `json:"success"`
	Documents []SearchResult `json:"documents"`
	Total     int            `json:"total"`
}

type documentResponse struct {
	ID               string    `json:"id"`
	FileName         string    `json:"fileName"`
	FileType         string    `json:"fileType"`
	FileSize         int64     `json:"fileSize"`
	FilePath         string    `json:"filePath"`
	ExtractedText    string    `json:"extractedText"`
	DocumentCategory Category  `json:"documentCategory"`
	IsProcessed      bool      `json:"isProcessed"`
	ProcessingStatus Status    `json:"processingStatus"`
	UploadedBy       string    `json:"uploadedBy"`
	UploadDate       time.Time `json:"uploadDate"`
	LastModified     time.Time `json:"lastModified"`
}

func toDocumentResponse(doc Document) documentResponse {
	return documentResponse{
		ID:               doc.ID,
		FileName:         doc.FileName,
		FileType:         doc.FileType,
		FileSize:         doc.FileSize,
		FilePath:         doc.FilePath,
		ExtractedText:    doc.ExtractedText,
		DocumentCategory: doc.DocumentCategory,
		IsProcessed:      doc.IsProcessed,
		ProcessingStatus: doc.ProcessingStatus,
		UploadedBy:       doc.UploadedBy,
		UploadDate:       doc.UploadDate,
		LastModified:     doc.LastModified,
	}
}
