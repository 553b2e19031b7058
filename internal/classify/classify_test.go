package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/llm"
)

type fakeLLM struct {
	reply    string
	err      error
	calls    int
	messages []llm.Message
}

func (f *fakeLLM) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeLLM) Configured() bool { return true }

func TestClassifySkipsShortInput(t *testing.T) {
	client := &fakeLLM{reply: "contract"}
	c := New(client)

	got, err := c.Classify(context.Background(), "too short")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Category != documents.CategoryOther {
		t.Fatalf("expected other, got %q", got.Category)
	}
	if client.calls != 0 {
		t.Fatalf("expected no model call, got %d", client.calls)
	}
}

func TestClassifyMeasuresRawLength(t *testing.T) {
	client := &fakeLLM{reply: "permit"}
	c := New(client)

	// Nine characters once trimmed, eleven as received.
	got, err := c.Classify(context.Background(), " permit #4 ")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected one model call, got %d", client.calls)
	}
	if got.Category != documents.CategoryPermit {
		t.Fatalf("expected permit, got %q", got.Category)
	}
}

func TestClassifyUnconfigured(t *testing.T) {
	c := New(llm.Unconfigured{})
	got, err := c.Classify(context.Background(), "This is a solar installation contract")
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if got.Category != documents.CategoryOther {
		t.Fatalf("expected other, got %q", got.Category)
	}
}

func TestClassifyModelError(t *testing.T) {
	client := &fakeLLM{err: errors.New("401 unauthorized")}
	got, err := New(client).Classify(context.Background(), "Invoice #1001 for coating work")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got.Category != documents.CategoryOther {
		t.Fatalf("expected other, got %q", got.Category)
	}
}

func TestClassifySendsDocumentText(t *testing.T) {
	client := &fakeLLM{reply: "Category: warranty"}
	text := "Warranty period: 25 years on all panels"
	got, err := New(client).Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Category != documents.CategoryWarranty {
		t.Fatalf("expected warranty, got %q", got.Category)
	}
	if len(client.messages) != 2 || !strings.Contains(client.messages[1].Content, text) {
		t.Fatalf("unexpected messages %+v", client.messages)
	}
}

func TestCategoryFromResponsePriority(t *testing.T) {
	cases := []struct {
		reply string
		want  documents.Category
	}{
		{"invoice attached to the contract", documents.CategoryContract},
		{"CONTRACT and INVOICE", documents.CategoryContract},
		{"site_survey", documents.CategorySiteSurvey},
		{"inspection survey", documents.CategorySiteSurvey},
		{"warranty inspection", documents.CategoryInspection},
		{"permit for warranty work", documents.CategoryWarranty},
		{"maintenance permit", documents.CategoryPermit},
		{"insurance maintenance rider", documents.CategoryMaintenance},
		{"insurance", documents.CategoryInsurance},
		{"correspondence", documents.CategoryOther},
		{"no idea", documents.CategoryOther},
		{"", documents.CategoryOther},
	}
	for _, tc := range cases {
		if got := CategoryFromResponse(tc.reply); got != tc.want {
			t.Fatalf("CategoryFromResponse(%q) = %q, want %q", tc.reply, got, tc.want)
		}
	}
}

func TestCategoryFromResponseAllPairs(t *testing.T) {
	for i := 0; i < len(keywordOrder); i++ {
		for j := i + 1; j < len(keywordOrder); j++ {
			hi, lo := keywordOrder[i], keywordOrder[j]
			for _, reply := range []string{hi.keyword + " " + lo.keyword, lo.keyword + " " + hi.keyword} {
				if got := CategoryFromResponse(reply); got != hi.category {
					t.Fatalf("CategoryFromResponse(%q) = %q, want %q", reply, got, hi.category)
				}
			}
		}
	}
}

func TestClassifyParsesHints(t *testing.T) {
	client := &fakeLLM{reply: "contract\n```json\n{\"customerName\": \" Dana Ortiz \", \"systemSize\": \"8.4 kW\"}\n```"}
	got, err := New(client).Classify(context.Background(), "Contract for Dana Ortiz, 8.4 kW system")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Hints == nil {
		t.Fatalf("expected hints")
	}
	if got.Hints.CustomerName != "Dana Ortiz" || got.Hints.SystemSize != "8.4 kW" {
		t.Fatalf("unexpected hints %+v", got.Hints)
	}
}

func TestParseHintsIgnoresMalformed(t *testing.T) {
	for _, reply := range []string{"contract", "contract {not json}", "other {}"} {
		if h := parseHints(reply); h != nil {
			t.Fatalf("parseHints(%q) = %+v, want nil", reply, h)
		}
	}
}
