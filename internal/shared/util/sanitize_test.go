package util

import (
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "report.pdf", want: "report.pdf"},
		{name: "separators", in: "a/b\\c.txt", want: "a_b_c.txt"},
		{name: "spaces", in: " site survey.pdf ", want: "site_survey.pdf"},
		{name: "traversal", in: "../etc/passwd", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeFileName(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUploadPathDeterministic(t *testing.T) {
	at := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)
	first, err := UploadPath(at, "contract.pdf")
	if err != nil {
		t.Fatalf("UploadPath: %v", err)
	}
	second, err := UploadPath(at, "contract.pdf")
	if err != nil {
		t.Fatalf("UploadPath: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable path, got %q and %q", first, second)
	}
	want := "uploads/1772600767000_contract.pdf"
	if first != want {
		t.Fatalf("expected %q, got %q", want, first)
	}
}
