package utils

import (
	"regexp"
	"strings"
)

// slugPattern matches runs of characters that are not allowed in inventory slugs.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a display name.
// "Dell Inc." becomes "dell-inc".
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
