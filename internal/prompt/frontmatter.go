package prompt

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// UnterminatedFrontmatterError marks a file that opens a frontmatter block
// but never closes it. Distinct from a file with no block at all, which
// parses as raw content.
type UnterminatedFrontmatterError struct{}

func (*UnterminatedFrontmatterError) Error() string {
	return "unterminated frontmatter block (missing closing ---)"
}

// Parse decodes a prompt file payload into metadata and body.
//
// A payload beginning with a "---" line must contain a matching closing
// "---" line; everything between is YAML metadata and everything after is
// the body. A payload that does not begin with "---" is valid raw content:
// the body is the whole payload and the metadata is zero (the prompt is
// not yet indexable until adopted).
func Parse(data []byte) (*Prompt, error) {
	text := string(data)

	if !hasFrontmatter(text) {
		return &Prompt{Content: text}, nil
	}

	// Strip the opening delimiter line.
	rest := text[len(delimiter):]
	rest = strings.TrimPrefix(rest, "\r")
	if !strings.HasPrefix(rest, "\n") {
		// "---foo" is not a delimiter line; treat as raw content.
		return &Prompt{Content: text}, nil
	}
	rest = rest[1:]

	head, body, ok := cutClosingDelimiter(rest)
	if !ok {
		return nil, &UnterminatedFrontmatterError{}
	}

	var p Prompt
	if err := yaml.Unmarshal([]byte(head), &p); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	// A single leading blank line after the closing delimiter is
	// formatting, not content.
	body = strings.TrimPrefix(body, "\r\n")
	body = strings.TrimPrefix(body, "\n")
	p.Content = body
	return &p, nil
}

// Serialize renders a prompt in its file form: frontmatter block, blank
// line, body. The inverse of Parse for any valid prompt.
func Serialize(p *Prompt) ([]byte, error) {
	meta, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.Write(meta)
	b.WriteString(delimiter)
	b.WriteString("\n\n")
	b.WriteString(p.Content)
	return []byte(b.String()), nil
}

// HasMetadata reports whether the prompt carries parsed frontmatter (an
// id), as opposed to raw content read from a headerless file.
func (p *Prompt) HasMetadata() bool {
	return p.ID != ""
}

func hasFrontmatter(text string) bool {
	return strings.HasPrefix(text, delimiter+"\n") ||
		strings.HasPrefix(text, delimiter+"\r\n")
}

// cutClosingDelimiter splits the post-opening-delimiter remainder at the
// first line consisting of exactly "---".
func cutClosingDelimiter(rest string) (head, body string, ok bool) {
	lines := strings.SplitAfter(rest, "\n")
	offset := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == delimiter {
			return rest[:offset], rest[offset+len(line):], true
		}
		offset += len(line)
	}
	return "", "", false
}
