package util

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UploadPrefix is the storage namespace for raw uploads.
const UploadPrefix = "uploads"

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// UploadPath derives the storage location for a file uploaded at t.
// The same (t, name) pair always yields the same path.
func UploadPath(t time.Time, name string) (string, error) {
	clean, err := SanitizeFileName(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d_%s", UploadPrefix, t.UTC().UnixMilli(), clean), nil
}
