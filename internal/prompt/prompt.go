// Package prompt defines the prompt entity and its on-disk markdown form.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Prompt is the root entity: a reusable text artifact with metadata.
// The file form is a YAML frontmatter block followed by the body; the
// index form is a denormalized row derived from this struct.
type Prompt struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Created       time.Time `yaml:"created"`
	Updated       time.Time `yaml:"updated"`
	Version       int       `yaml:"version"`
	Tags          []string  `yaml:"tags,omitempty"`
	IsTemplate    bool      `yaml:"is_template,omitempty"`
	IsFavorite    bool      `yaml:"is_favorite,omitempty"`
	FavoriteOrder int       `yaml:"favorite_order,omitempty"`
	IsPinned      bool      `yaml:"is_pinned,omitempty"`
	PinOrder      int       `yaml:"pin_order,omitempty"`

	// Content is the free-text body following the frontmatter block.
	Content string `yaml:"-"`
}

// Validate checks the fields required for a prompt to be indexable.
func (p *Prompt) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if p.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", p.Version)
	}
	if p.Created.IsZero() {
		return fmt.Errorf("missing created timestamp")
	}
	if p.Updated.IsZero() {
		return fmt.Errorf("missing updated timestamp")
	}
	return nil
}

// NormalizeTags trims, de-duplicates (case-insensitively, first spelling
// wins) and sorts a tag list. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// HasTag reports whether the prompt carries the tag, case-insensitively.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Slug derives a filesystem-friendly file stem from a prompt name.
// Non-alphanumeric runs collapse to single hyphens.
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "prompt"
	}
	return slug
}
