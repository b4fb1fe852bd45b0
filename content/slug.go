package content

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize converts s to a slug: lowercase, every run of characters outside
// [a-z0-9] collapsed to a single hyphen, leading and trailing hyphens removed.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugFromFileName derives a post slug from its source file name.
func SlugFromFileName(name string) string {
	return Normalize(strings.TrimSuffix(name, ".md"))
}
