// Package strings holds the small string normalizers shared by the privacy
// and assessment packages.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value, drops empties and keeps the first occurrence
// of each remaining value. Order is preserved and the input is not modified.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with case folding.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, FoldKey)
}

// FoldKey is the lookup key used for case-insensitive exact matching.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := norm(v)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
