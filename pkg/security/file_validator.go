package security

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SniffLength is how many leading bytes ValidateResume needs to see.
const SniffLength = 3072

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
}

// Magic byte signatures of the resume formats the parser accepts
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	".docx": {{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
}

// Allowed resume extensions (strict whitelist)
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// MIME types accepted per extension. DOCX sniffs as plain zip when the
// sniffed head does not reach the [Content_Types].xml entry.
var allowedMIMETypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".docx": {
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/zip",
	},
}

// ValidateResume performs 3-layer validation on an uploaded resume:
// 1. Extension whitelist check
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type must belong to the extension
//
// head is the beginning of the file; SniffLength bytes are enough.
func ValidateResume(filename string, head []byte) FileValidationResult {
	result := FileValidationResult{}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	if !allowedExtensions[ext] {
		result.Error = "file extension not allowed: " + ext + " (allowed: " + strings.Join(AllowedExtensions(), ", ") + ")"
		return result
	}

	// Layer 2: Magic bytes
	if !validateMagicBytes(ext, head) {
		result.Error = "file content does not match extension"
		return result
	}

	// Layer 3: MIME sniffing
	detected := mimetype.Detect(head)
	result.DetectedMIME = detected.String()
	if !mimeAllowed(ext, detected) {
		result.Error = "MIME type not allowed: " + result.DetectedMIME
		return result
	}

	result.Valid = true
	return result
}

// AllowedExtensions returns the sorted extension whitelist, e.g. for the file input accept attribute
func AllowedExtensions() []string {
	extensions := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func mimeAllowed(ext string, detected *mimetype.MIME) bool {
	for _, m := range allowedMIMETypes[ext] {
		if detected.Is(m) {
			return true
		}
	}
	return false
}
