package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// SummaryLimit is the longest summary returned untruncated.
	SummaryLimit = 160
	// summaryCut leaves room for the ellipsis on truncated summaries.
	summaryCut = 157
	ellipsis   = "…"
)

var (
	inlineCodeRe  = regexp.MustCompile("`([^`]+)`")
	linkRe        = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	punctuationRe = regexp.MustCompile(`[#*>\\-]+`)
)

// Summarize strips Markdown markup from text and shortens it to at most
// SummaryLimit characters. Inline code keeps its contents, links keep their
// label. Empty input (or input that is all markup) returns fallback.
func Summarize(text, fallback string) string {
	if text == "" {
		return fallback
	}

	cleaned := inlineCodeRe.ReplaceAllString(text, "$1")
	cleaned = linkRe.ReplaceAllString(cleaned, "$1")
	cleaned = punctuationRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if utf8.RuneCountInString(cleaned) <= SummaryLimit {
		if cleaned == "" {
			return fallback
		}
		return cleaned
	}

	runes := []rune(cleaned)
	return strings.TrimRight(string(runes[:summaryCut]), " ") + ellipsis
}
