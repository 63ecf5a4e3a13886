package errors

import (
	"strings"
	"unicode"
)

// ValidateSegmentName validates a segment (contig) name before it is used
// as a title, a storage key or a URL component.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 1024 characters
//
// FASTA headers are free text, so spaces, pipes and colons are allowed.
func ValidateSegmentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "segment name cannot be empty")
	}

	if len(name) > 1024 {
		return New(ErrCodeInvalidInput, "segment name too long (max 1024 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "segment name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates an input or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateID validates an opaque identifier received from a client
// (stored layout IDs in the HTTP API).
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "id too long (max 64 characters)")
	}
	if strings.ContainsAny(id, "/\\.\x00 ") {
		return New(ErrCodeInvalidInput, "id contains invalid characters")
	}
	return nil
}
