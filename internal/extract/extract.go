package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxTextChars bounds stored extracted text, in characters.
const MaxTextChars = 10000

const mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extraction methods reported in Result.Method.
const (
	MethodText        = "text"
	MethodPDF         = "pdf"
	MethodDOCX        = "docx"
	MethodPlaceholder = "placeholder"
)

// Options toggles optional extractors.
type Options struct {
	// PDFText enables real PDF text extraction; otherwise PDFs get a placeholder.
	PDFText bool
}

// Result is the extracted, truncated text of one upload.
type Result struct {
	Text      string
	Method    string
	Truncated bool
}

// Extract derives plain text from data according to mimeType, truncated to MaxTextChars.
// Unreadable PDF/DOCX payloads degrade to placeholder text rather than failing.
func Extract(ctx context.Context, data []byte, mimeType string, fileName string, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	raw, method := extractRaw(data, strings.ToLower(mimeType), fileName, opts)
	text, truncated := Truncate(sanitize(raw), MaxTextChars)
	return Result{Text: text, Method: method, Truncated: truncated}, nil
}

func extractRaw(data []byte, mimeType string, fileName string, opts Options) (string, string) {
	switch {
	case strings.Contains(mimeType, "text"):
		return decodeText(data), MethodText
	case strings.Contains(mimeType, "pdf"):
		if opts.PDFText {
			if text, err := extractPDF(data); err == nil && strings.TrimSpace(text) != "" {
				return text, MethodPDF
			}
		}
		return fmt.Sprintf("PDF document: %s. Text content is not available for this file.", fileName), MethodPlaceholder
	case strings.Contains(mimeType, "image"):
		return fmt.Sprintf("Image document: %s. OCR text extraction is not enabled.", fileName), MethodPlaceholder
	case mimeType == mimeDOCX:
		if text, err := extractDOCX(data); err == nil && strings.TrimSpace(text) != "" {
			return text, MethodDOCX
		}
	}
	return fmt.Sprintf("Document: %s. Text content could not be extracted from this file type.", fileName), MethodPlaceholder
}

// Truncate cuts s to at most max characters, never splitting a UTF-8 sequence.
func Truncate(s string, max int) (string, bool) {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// DetectMIME returns declared unless it is empty or generic, in which case the payload is sniffed.
func DetectMIME(data []byte, declared string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	detected := mimetype.Detect(data)
	return strings.Split(detected.String(), ";")[0]
}

// decodeText honors a UTF-16 byte order mark and otherwise reads UTF-8, dropping a UTF-8 BOM.
func decodeText(data []byte) string {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// sanitize makes text storable in a Postgres text column, which rejects NUL
// and invalid UTF-8.
func sanitize(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.ReplaceAll(s, "\x00", "")
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parse panic: %v", rec)
		}
	}()
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return stripDocxXML(rc)
}

func stripDocxXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
