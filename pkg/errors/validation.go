package errors

import (
	"strings"
	"unicode"
)

// maxPathLength bounds user-supplied paths.
const maxPathLength = 4096

// ValidatePath checks that a user-supplied file path is usable.
//
// Validation rules:
//   - Path cannot be empty or whitespace
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateOutputPath checks that path can name an output file.
// Whether the path is writable is left for the write itself to report as
// OUTPUT_WRITE, after the input has been read.
func ValidateOutputPath(path string) error {
	return ValidatePath(path)
}
