package doc

import (
	"fmt"
	"strings"
)

// Bookmark-derived names are cut to this many characters.
const maxBookmarkName = 100

// ResolveName resolves the output name for one page. Precedence, highest
// first: explicit override, bookmark title (sanitized, truncated),
// template with {original} and {page} substituted, then the default
// "original-NNN" form. Exactly one level wins; they are never blended.
func ResolveName(page int, originalStem string, overrides, bookmarkNames map[int]string, template string) string {
	if name, ok := overrides[page]; ok && name != "" {
		return name
	}

	if title, ok := bookmarkNames[page]; ok {
		name := SanitizeName(title)
		if len(name) > maxBookmarkName {
			name = name[:maxBookmarkName]
		}
		if name != "" {
			return name
		}
	}

	if template != "" {
		name := strings.ReplaceAll(template, "{original}", originalStem)
		return strings.ReplaceAll(name, "{page}", fmt.Sprintf("%03d", page))
	}

	return fmt.Sprintf("%s-%03d", originalStem, page)
}

// uniqueName disambiguates repeated names within one invocation by
// appending a numeric suffix to every use after the first.
func uniqueName(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, n+1)
}
