package documents

import "context"

// Classifier assigns a category to extracted text. A non-nil error means the
// returned Classification must not be trusted; callers degrade to CategoryOther.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Classification is a classifier verdict plus advisory hints.
type Classification struct {
	Category Category
	Hints    *Hints
}

// Hints are best-effort fields pulled from the document by the model. They are
// surfaced to callers and logs only, never persisted.
type Hints struct {
	CustomerName    string `json:"customerName,omitempty"`
	CustomerAddress string `json:"customerAddress,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	SystemSize      string `json:"systemSize,omitempty"`
	SystemType      string `json:"systemType,omitempty"`
	SystemCost      string `json:"systemCost,omitempty"`
}

// Empty reports whether no hint was extracted.
func (h *Hints) Empty() bool {
	return h == nil || *h == Hints{}
}

// ClassifierPrefixChars is how much extracted text is sent for classification.
const ClassifierPrefixChars = 2000
