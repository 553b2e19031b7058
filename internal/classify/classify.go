// Package classify assigns a document category using an external language model.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/llm"
	"docpipe-backend/internal/shared/metrics"
)

// MinInputChars is the shortest text worth sending to the model, counted on the
// raw input including surrounding whitespace.
const MinInputChars = 10

// keywordOrder is scanned in order against the lower-cased model response; the
// first keyword found decides the category.
var keywordOrder = []struct {
	keyword  string
	category documents.Category
}{
	{"contract", documents.CategoryContract},
	{"invoice", documents.CategoryInvoice},
	{"survey", documents.CategorySiteSurvey},
	{"inspection", documents.CategoryInspection},
	{"warranty", documents.CategoryWarranty},
	{"permit", documents.CategoryPermit},
	{"maintenance", documents.CategoryMaintenance},
	{"insurance", documents.CategoryInsurance},
}

const systemPrompt = `You classify documents for a solar installation and roof coatings contractor.
Reply with the single best category on the first line, chosen from:
contract, invoice, site_survey, inspection, warranty, permit, maintenance, correspondence, insurance, other.
Then, if any are present in the document, reply with a JSON object on the following lines with these optional string fields:
customerName, customerAddress, customerPhone, systemSize, systemType, systemCost.
Leave out fields you cannot find. Do not invent values.`

// Classifier implements documents.Classifier over an llm.Client.
type Classifier struct {
	LLM llm.Client
}

// New constructs a Classifier.
func New(client llm.Client) *Classifier {
	return &Classifier{LLM: client}
}

// Classify returns CategoryOther without a model call for very short input.
// An unconfigured client yields llm.ErrNotConfigured.
func (c *Classifier) Classify(ctx context.Context, text string) (documents.Classification, error) {
	result := documents.Classification{Category: documents.CategoryOther}
	if utf8.RuneCountInString(text) < MinInputChars {
		return result, nil
	}
	if !llm.Available(c.LLM) {
		return result, llm.ErrNotConfigured
	}

	start := time.Now()
	reply, err := c.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: "Document text:\n\n" + text},
	})
	metrics.ObserveLLM("classify", start, err)
	if err != nil {
		return result, fmt.Errorf("classify: %w", err)
	}

	result.Category = CategoryFromResponse(reply)
	result.Hints = parseHints(reply)
	return result, nil
}

// CategoryFromResponse applies the keyword priority scan to a model reply.
func CategoryFromResponse(reply string) documents.Category {
	lower := strings.ToLower(reply)
	for _, k := range keywordOrder {
		if strings.Contains(lower, k.keyword) {
			return k.category
		}
	}
	return documents.CategoryOther
}

// parseHints pulls the first JSON object out of reply. Malformed or empty hints yield nil.
func parseHints(reply string) *documents.Hints {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil
	}
	var hints documents.Hints
	if err := json.Unmarshal([]byte(reply[start:end+1]), &hints); err != nil {
		return nil
	}
	hints.CustomerName = strings.TrimSpace(hints.CustomerName)
	hints.CustomerAddress = strings.TrimSpace(hints.CustomerAddress)
	hints.CustomerPhone = strings.TrimSpace(hints.CustomerPhone)
	hints.SystemSize = strings.TrimSpace(hints.SystemSize)
	hints.SystemType = strings.TrimSpace(hints.SystemType)
	hints.SystemCost = strings.TrimSpace(hints.SystemCost)
	if hints.Empty() {
		return nil
	}
	return &hints
}

var _ documents.Classifier = (*Classifier)(nil)
