package errors

import (
	"strings"
	"unicode"
)

// ValidateArchivePath validates the name of an entry inside a packaged
// document before it is extracted to disk.
// It rejects names that would escape the extraction directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No parent directory segments (..)
//   - No backslashes (Windows-style paths)
func ValidateArchivePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "archive entry name cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "archive entry name too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "archive entry name contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "archive entry %q must be relative", path)
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "archive entry %q cannot contain backslashes", path)
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "archive entry %q cannot contain path traversal sequences (..)", path)
		}
	}

	return nil
}

// ValidateOutputPath validates a path the user asked an archive to be
// written to.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidPath, "output path contains a null byte")
	}
	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}
	return nil
}
