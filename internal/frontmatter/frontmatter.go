// Package frontmatter reads and writes the `---` delimited key: value header
// that prefixes prompt Markdown files.
//
// Parsing is best effort. Malformed headers never produce an error, they
// simply contribute fewer fields (or swallow the body when left unclosed).
package frontmatter

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Delimiter opens and closes a front-matter block.
const Delimiter = "---"

// Well-known metadata keys.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyTags        = "tags"
	KeyImage       = "image"
)

// Field is a single ordered key: value pair for Write.
type Field struct {
	Key   string
	Value string
}

// Parse splits raw file text into its metadata mapping and body.
//
// When the first non-empty line is exactly "---", every following line up to
// the next "---" line is treated as metadata. Metadata lines without a colon
// are ignored. Keys are lowercased and trimmed, values are trimmed. The body
// is returned trimmed of surrounding whitespace.
func Parse(text string) (map[string]string, string) {
	meta := make(map[string]string)
	lines := strings.Split(text, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	if start >= len(lines) || strings.TrimSpace(lines[start]) != Delimiter {
		return meta, strings.TrimSpace(text)
	}

	idx := start + 1
	for idx < len(lines) && strings.TrimSpace(lines[idx]) != Delimiter {
		line := strings.TrimSpace(lines[idx])
		if key, value, ok := strings.Cut(line, ":"); ok {
			meta[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
		}
		idx++
	}

	// Unclosed block: everything was metadata.
	if idx+1 >= len(lines) {
		return meta, ""
	}

	body := strings.Join(lines[idx+1:], "\n")
	return meta, strings.TrimSpace(body)
}

// Write renders fields and body in the on-disk prompt format:
//
//	---
//	title: ...
//	---
//
//	<body>
//
// Fields with empty values are skipped. Values are folded onto one line so a
// stray newline cannot break the header.
func Write(fields []Field, body string) string {
	lines := make([]string, 0, len(fields)+5)
	lines = append(lines, Delimiter)
	for _, f := range fields {
		value := foldLine(f.Value)
		if value == "" {
			continue
		}
		lines = append(lines, f.Key+": "+value)
	}
	lines = append(lines, Delimiter, "", strings.TrimSpace(body), "")

	return strings.Join(lines, "\n")
}

// SplitTags parses a comma separated tag value.
// Pieces are trimmed, empty pieces dropped; order and duplicates are kept.
func SplitTags(value string) []string {
	tags := []string{}
	for piece := range strings.SplitSeq(value, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// TitleFromFilename derives a display title from a file name:
// "code_review.md" -> "Code Review".
func TitleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.ReplaceAll(stem, "_", " ")
	return cases.Title(language.Und).String(stem)
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func foldLine(value string) string {
	return strings.TrimSpace(lineBreaks.Replace(value))
}
