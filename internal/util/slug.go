// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

// PlaceholderSlug is used when a title has no slug-safe characters at all.
const PlaceholderSlug = "prompt"

var (
	// Matches any run of characters outside [a-z0-9].
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a prompt title to a filesystem-safe slug.
//
// Rules:
//  1. Trim whitespace and lowercase
//  2. Replace each run of characters outside [a-z0-9] with a single dash
//  3. Collapse multiple dashes
//  4. Trim leading/trailing dashes
//  5. Fall back to PlaceholderSlug when nothing is left
//
// Examples:
//
//	"Code Review Helper" → "code-review-helper"
//	"  SQL -- Explain "   → "sql-explain"
//	"Café au lait"        → "caf-au-lait"
//	"!!!"                 → "prompt"
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlphanumericRe.ReplaceAllString(s, "-")
	s = multipleDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return PlaceholderSlug
	}
	return s
}
