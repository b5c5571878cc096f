package gallery

import (
	"strings"
)

// SanitizeFilename reduces an uploaded filename to a single safe path
// segment: path components and traversal sequences are stripped, spaces
// become underscores, and anything outside [A-Za-z0-9._-] is dropped.
// Returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	// Take the last path component for both separator conventions.
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	name = b.String()

	// No hidden files, no "." or ".." segments.
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return ""
	}
	return name
}
