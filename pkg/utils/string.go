package utils

import (
	"strings"
	"unicode"
)

// SanitizeFolderName strips a raw folder name down to letters, digits,
// spaces, hyphens and underscores, then trims surrounding whitespace. The
// result may be empty, which callers must treat as invalid.
func SanitizeFolderName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsImageContentType reports whether the declared content type is an image.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
