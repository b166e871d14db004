package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lowercases text and keeps word characters, turning runs of
// spaces and dashes into a single dash.
func Slugify(text string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if r > unicode.MaxASCII {
				continue
			}
			b.WriteRune(r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// UniqueSlug returns slugify(name) with a short random suffix.
func UniqueSlug(name, fallback string) string {
	base := Slugify(name)
	if base == "" {
		base = fallback
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
