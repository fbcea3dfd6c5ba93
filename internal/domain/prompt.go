// Package domain defines the core entities of the prompt library.
package domain

import (
	"slices"
	"strings"
	"time"
)

// ImagePrefix is the logical prefix every stored image reference carries.
const ImagePrefix = "uploads/"

// Prompt is a single Markdown prompt document.
// Filename is its identity; everything else is re-parsed from disk on read.
type Prompt struct {
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Tags        []string  `json:"tags"`
	TagsString  string    `json:"-"`
	Content     string    `json:"content"`
	HTML        string    `json:"html"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// HasImage reports whether the prompt references an uploaded image.
func (p *Prompt) HasImage() bool {
	return strings.HasPrefix(p.Image, ImagePrefix)
}

// HasTag reports whether the prompt carries tag (exact match).
func (p *Prompt) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// IsEmpty reports whether the prompt has no body. Empty prompts are
// excluded from listings.
func (p *Prompt) IsEmpty() bool {
	return p.Content == ""
}

// CollectTags returns the sorted, de-duplicated set of tags across prompts.
func CollectTags(prompts []*Prompt) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, p := range prompts {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	return tags
}
