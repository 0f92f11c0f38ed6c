package utils

import (
	"fmt"
	"mime/multipart"
	"strings"
	"unicode/utf8"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

const pdfMimeType = "application/pdf"

// FileTypeForMime maps an upload's MIME type to the stored file type,
// "image" or "pdf". Anything else is rejected.
func FileTypeForMime(mimeType string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if allowedImageTypes[normalized] {
		return "image", nil
	}
	if normalized == pdfMimeType {
		return "pdf", nil
	}
	return "", fmt.Errorf("unsupported file type: %s", mimeType)
}

func IsAllowedMimeType(mimeType string) bool {
	_, err := FileTypeForMime(mimeType)
	return err == nil
}

func ValidateFileName(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > 255 {
		return fmt.Errorf("filename too long (max 255 characters)")
	}
	if !utf8.ValidString(filename) {
		return fmt.Errorf("filename contains invalid UTF-8 characters")
	}

	invalidChars := []string{"<", ">", ":", "\"", "|", "?", "*", "\x00", "/"}
	for _, char := range invalidChars {
		if strings.Contains(filename, char) {
			return fmt.Errorf("filename contains invalid character: %s", char)
		}
	}
	return nil
}

// ValidateUpload checks one file of an upload batch before it is stored.
func ValidateUpload(header *multipart.FileHeader, maxFileSize int64) error {
	if err := ValidateFileName(header.Filename); err != nil {
		return err
	}
	if header.Size > maxFileSize {
		return fmt.Errorf("file %s exceeds maximum size of %s", header.Filename, FormatBytes(maxFileSize))
	}
	if !IsAllowedMimeType(header.Header.Get("Content-Type")) {
		return fmt.Errorf("file %s has unsupported type %s", header.Filename, header.Header.Get("Content-Type"))
	}
	return nil
}
