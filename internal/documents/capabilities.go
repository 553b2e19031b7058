package documents

import (
	"context"
	"fmt"

	"docpipe-backend/internal/shared/telemetry"
)

// Features are the pipeline switches reported by Capabilities.
type Features struct {
	AIAnalysis        bool
	OCR               bool
	PDFTextExtraction bool
}

// Capabilities describes what the ingestion pipeline accepts and how much it holds.
type Capabilities struct {
	SupportedTypes map[string][]string `json:"supportedTypes"`
	Features       CapabilityFeatures  `json:"features"`
	Stats          CapabilityStats     `json:"stats"`
}

// CapabilityFeatures is the feature-flag section of Capabilities.
type CapabilityFeatures struct {
	AIAnalysis        bool   `json:"aiAnalysis"`
	OCR               bool   `json:"ocr"`
	PDFTextExtraction bool   `json:"pdfTextExtraction"`
	LargeFileSupport  bool   `json:"largeFileSupport"`
	MaxFileSize       string `json:"maxFileSize"`
	MaxFileSizeBytes  int64  `json:"maxFileSizeBytes"`
}

// CapabilityStats holds live store counters.
type CapabilityStats struct {
	TotalDocuments     int64 `json:"totalDocuments"`
	ProcessedDocuments int64 `json:"processedDocuments"`
}

var supportedTypes = map[string][]string{
	"documents":    {"pdf", "doc", "docx", "txt", "rtf", "md"},
	"images":       {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"},
	"spreadsheets": {"xls", "xlsx", "csv"},
	"other":        {"json", "xml", "html"},
}

// Capabilities never fails: if the store cannot be queried the counters are zero.
func (s *Service) Capabilities(ctx context.Context) Capabilities {
	types := make(map[string][]string, len(supportedTypes))
	for k, v := range supportedTypes {
		types[k] = append([]string(nil), v...)
	}
	maxBytes := s.maxUploadBytes()
	caps := Capabilities{
		SupportedTypes: types,
		Features: CapabilityFeatures{
			AIAnalysis:        s.Features.AIAnalysis,
			OCR:               s.Features.OCR,
			PDFTextExtraction: s.Features.PDFTextExtraction,
			LargeFileSupport:  true,
			MaxFileSize:       formatBytes(maxBytes),
			MaxFileSizeBytes:  maxBytes,
		},
	}

	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		telemetry.Warn("capabilities.stats_fallback", map[string]any{"error": err})
		return caps
	}
	caps.Stats = CapabilityStats{
		TotalDocuments:     stats.TotalDocuments,
		ProcessedDocuments: stats.ProcessedDocuments,
	}
	return caps
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30 && n%(1<<30) == 0:
		return fmt.Sprintf("%dGB", n>>30)
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
