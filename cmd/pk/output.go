package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/promptstore"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithTypedError maps an error from the service layer to its exit code
// and reports it.
func exitWithTypedError(err error) {
	exitWithError(exitCodeFor(err), "%v", err)
}

// exitCodeFor maps the error taxonomy to the exit-code table.
func exitCodeFor(err error) int {
	var ve *promptstore.ValidationError
	var pe *filestore.ParseError

	switch {
	case errors.Is(err, promptstore.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, promptstore.ErrDuplicateName):
		return ExitDuplicate
	case errors.As(err, &ve), errors.As(err, &pe):
		return ExitDataError
	default:
		return ExitError
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// PromptResponse is the JSON form of a full prompt.
type PromptResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Created       string   `json:"created"`
	Updated       string   `json:"updated"`
	Version       int      `json:"version"`
	Tags          []string `json:"tags,omitempty"`
	IsTemplate    bool     `json:"is_template,omitempty"`
	IsFavorite    bool     `json:"is_favorite,omitempty"`
	FavoriteOrder int      `json:"favorite_order,omitempty"`
	IsPinned      bool     `json:"is_pinned,omitempty"`
	PinOrder      int      `json:"pin_order,omitempty"`
	Path          string   `json:"path"`
	Content       string   `json:"content,omitempty"`
}

func promptResponse(p *promptstore.Stored, includeContent bool) PromptResponse {
	resp := PromptResponse{
		ID:            p.ID,
		Name:          p.Name,
		Created:       p.Created.Format(time.RFC3339),
		Updated:       p.Updated.Format(time.RFC3339),
		Version:       p.Version,
		Tags:          p.Tags,
		IsTemplate:    p.IsTemplate,
		IsFavorite:    p.IsFavorite,
		FavoriteOrder: p.FavoriteOrder,
		IsPinned:      p.IsPinned,
		PinOrder:      p.PinOrder,
		Path:          p.Path,
	}
	if includeContent {
		resp.Content = p.Content
	}
	return resp
}

// SummaryResponse is the JSON form of an index-backed prompt listing entry.
type SummaryResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Updated  string   `json:"updated"`
	Version  int      `json:"version"`
	Tags     []string `json:"tags,omitempty"`
	Favorite bool     `json:"favorite,omitempty"`
	Pinned   bool     `json:"pinned,omitempty"`
}

func summaryResponses(summaries []promptstore.Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, SummaryResponse{
			ID:       s.ID,
			Name:     s.Name,
			Updated:  s.UpdatedAt.Format(time.RFC3339),
			Version:  s.Version,
			Tags:     s.Tags,
			Favorite: s.IsFavorite,
			Pinned:   s.IsPinned,
		})
	}
	return out
}

// printSummariesHuman prints a prompt listing in human-readable format.
func printSummariesHuman(summaries []promptstore.Summary) {
	if len(summaries) == 0 {
		fmt.Println("No prompts found.")
		return
	}
	for _, s := range summaries {
		marker := " "
		if s.IsPinned {
			marker = "*"
		} else if s.IsFavorite {
			marker = "+"
		}
		line := fmt.Sprintf("%s %-40s v%-3d %s", marker, truncateString(s.Name, 40), s.Version, s.UpdatedAt.Format("2006-01-02"))
		if len(s.Tags) > 0 {
			line += "  [" + strings.Join(s.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
