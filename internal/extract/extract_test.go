package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractPlainText(t *testing.T) {
	in := "This is a solar installation contract for 123 Main St"
	got, err := Extract(context.Background(), []byte(in), "text/plain; charset=utf-8", "contract.txt", Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Text != in {
		t.Fatalf("expected literal text, got %q", got.Text)
	}
	if got.Method != MethodText || got.Truncated {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestExtractDecodesByteOrderMarks(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"utf-8", []byte("\xef\xbb\xbfHi there")},
		{"utf-16le", []byte{0xFF, 0xFE, 'H', 0, 'i', 0, ' ', 0, 't', 0, 'h', 0, 'e', 0, 'r', 0, 'e', 0}},
		{"utf-16be", []byte{0xFE, 0xFF, 0, 'H', 0, 'i', 0, ' ', 0, 't', 0, 'h', 0, 'e', 0, 'r', 0, 'e'}},
	}
	for _, tc := range cases {
		got, err := Extract(context.Background(), tc.data, "text/plain", "notes.txt", Options{})
		if err != nil {
			t.Fatalf("%s: Extract: %v", tc.name, err)
		}
		if got.Text != "Hi there" {
			t.Fatalf("%s: expected %q, got %q", tc.name, "Hi there", got.Text)
		}
	}
}

func TestExtractStripsNULAndInvalidUTF8(t *testing.T) {
	// UTF-16LE without a byte order mark reads as ASCII interleaved with NUL.
	data := []byte{'O', 0, 'K', 0, 0xff, '!'}
	got, err := Extract(context.Background(), data, "text/plain", "notes.txt", Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if strings.ContainsRune(got.Text, 0) {
		t.Fatalf("expected NUL bytes removed, got %q", got.Text)
	}
	if !utf8.ValidString(got.Text) {
		t.Fatalf("expected valid utf-8, got %q", got.Text)
	}
	if got.Text != "OK\uFFFD!" {
		t.Fatalf("unexpected text %q", got.Text)
	}
}

func TestSanitizeCoversExtractedPDFText(t *testing.T) {
	if got := sanitize("Invoice\x00 #12\x00\xc3"); got != "Invoice #12\uFFFD" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}

func TestExtractTruncatesToBound(t *testing.T) {
	in := strings.Repeat("é", MaxTextChars+250)
	first, err := Extract(context.Background(), []byte(in), "text/plain", "long.txt", Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if n := utf8.RuneCountInString(first.Text); n != MaxTextChars {
		t.Fatalf("expected %d chars, got %d", MaxTextChars, n)
	}
	if !first.Truncated || !utf8.ValidString(first.Text) {
		t.Fatalf("expected valid truncated text")
	}

	second, err := Extract(context.Background(), []byte(in), "text/plain", "long.txt", Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if first.Text != second.Text {
		t.Fatalf("expected identical text on re-extraction")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		max       int
		want      string
		truncated bool
	}{
		{name: "shorter", in: "abc", max: 5, want: "abc"},
		{name: "exact", in: "abcde", max: 5, want: "abcde"},
		{name: "longer", in: "abcdef", max: 5, want: "abcde", truncated: true},
		{name: "multibyte", in: "日本語テキスト", max: 3, want: "日本語", truncated: true},
		{name: "zero", in: "abc", max: 0, want: "", truncated: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Truncate(tt.in, tt.max)
			if got != tt.want || truncated != tt.truncated {
				t.Fatalf("Truncate(%q, %d) = %q,%v want %q,%v", tt.in, tt.max, got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

func TestExtractPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		opts     Options
		contains string
	}{
		{name: "pdf disabled", mime: "application/pdf", contains: "PDF document: scan.bin"},
		{name: "pdf unreadable", mime: "application/pdf", opts: Options{PDFText: true}, contains: "PDF document: scan.bin"},
		{name: "image", mime: "image/png", contains: "Image document: scan.bin"},
		{name: "other", mime: "application/vnd.ms-excel", contains: "Document: scan.bin"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(context.Background(), []byte("not really a file"), tt.mime, "scan.bin", tt.opts)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got.Method != MethodPlaceholder {
				t.Fatalf("expected placeholder method, got %s", got.Method)
			}
			if !strings.Contains(got.Text, tt.contains) {
				t.Fatalf("expected %q in %q", tt.contains, got.Text)
			}
		})
	}
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Inspection report</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Roof passed</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	got, err := Extract(context.Background(), buf.Bytes(), mimeDOCX, "report.docx", Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Method != MethodDOCX {
		t.Fatalf("expected docx method, got %s (%q)", got.Method, got.Text)
	}
	if got.Text != "Inspection report\nRoof passed" {
		t.Fatalf("unexpected docx text %q", got.Text)
	}
}

func TestExtractHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Extract(ctx, []byte("x"), "text/plain", "a.txt", Options{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDetectMIME(t *testing.T) {
	if got := DetectMIME([]byte("%PDF-1.4\n"), "application/octet-stream"); got != "application/pdf" {
		t.Fatalf("expected sniffed application/pdf, got %q", got)
	}
	if got := DetectMIME([]byte("hello"), "Text/Plain; charset=utf-8"); got != "text/plain" {
		t.Fatalf("expected declared text/plain, got %q", got)
	}
	if got := DetectMIME([]byte("hello world"), ""); got != "text/plain" {
		t.Fatalf("expected sniffed text/plain, got %q", got)
	}
}
