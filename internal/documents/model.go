package documents

import "time"

// Category is the fixed document classification set.
type Category string

const (
	CategoryContract       Category = "contract"
	CategoryInvoice        Category = "invoice"
	CategorySiteSurvey     Category = "site_survey"
	CategoryInspection     Category = "inspection"
	CategoryWarranty       Category = "warranty"
	CategoryPermit         Category = "permit"
	CategoryMaintenance    Category = "maintenance"
	CategoryCorrespondence Category = "correspondence"
	CategoryInsurance      Category = "insurance"
	CategoryOther          Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryContract,
	CategoryInvoice,
	CategorySiteSurvey,
	CategoryInspection,
	CategoryWarranty,
	CategoryPermit,
	CategoryMaintenance,
	CategoryCorrespondence,
	CategoryInsurance,
	CategoryOther,
}

// ParseCategory maps s onto the fixed set; anything unrecognized is CategoryOther.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// Status is the processing lifecycle of a document.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// SystemUploader is recorded when the caller does not identify itself.
const SystemUploader = "system"

// Document is one uploaded file plus its derived text and classification.
type Document struct {
	ID               string
	FileName         string
	FileType         string
	FileSize         int64
	FilePath         string
	ExtractedText    string
	DocumentCategory Category
	IsProcessed      bool
	ProcessingStatus Status
	UploadedBy       string
	UploadDate       time.Time
	LastModified     time.Time
}

// Stats are live counters for the capabilities endpoint.
type Stats struct {
	TotalDocuments     int64
	ProcessedDocuments int64
}
