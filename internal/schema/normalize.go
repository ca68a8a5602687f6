package schema

import "strings"

var nameReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeColumnName canonicalizes a raw column label for matching only:
// lower-case, surrounding whitespace trimmed, spaces and hyphens turned into
// underscores. The result is never used for display.
func NormalizeColumnName(name string) string {
	return nameReplacer.Replace(strings.TrimSpace(strings.ToLower(name)))
}
