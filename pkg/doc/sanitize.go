package doc

import "strings"

// isNameChar reports whether c is allowed in an output filename.
// Allowed: ASCII letters, digits, space, and . - , & ( ) _ ^
func isNameChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	switch c {
	case ' ', '.', '-', ',', '&', '(', ')', '_', '^':
		return true
	}
	return false
}

// SanitizeName drops every character not safe for a filesystem path.
// The transform is lossy and idempotent; no length limit is applied.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, c := range name {
		if isNameChar(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// IsValidName reports whether every character of name is allowed.
func IsValidName(name string) bool {
	for _, c := range name {
		if !isNameChar(c) {
			return false
		}
	}
	return true
}
