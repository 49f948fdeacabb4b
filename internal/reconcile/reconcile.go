// Package reconcile keeps the metadata index an accurate projection of the
// file store, and audits that projection. All index writes in the system
// funnel through this engine so change detection and tag pruning follow a
// single set of rules.
package reconcile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/index"
	"github.com/promptkeep/promptkeep/internal/prompt"
)

// Action describes what a single-file sync did.
type Action int

const (
	// Unchanged means the file matched the index and no writes happened.
	Unchanged Action = iota
	// Created means a row was inserted for a previously-untracked file.
	Created
	// Updated means the existing row, search entry, or tag links changed.
	Updated
)

func (a Action) String() string {
	switch a {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Engine projects file store state into the metadata index.
type Engine struct {
	files *filestore.Store
	idx   *index.DB
}

// New creates a reconciliation engine over the given stores.
func New(files *filestore.Store, idx *index.DB) *Engine {
	return &Engine{files: files, idx: idx}
}

// SyncOne projects a single file into the index. Untracked files get a new
// row; tracked files are compared by name, fingerprint, metadata, and tag
// set, and rewritten only when something changed. Running it twice on an
// unchanged file performs zero writes the second time.
//
// A file with no frontmatter at all is adopted first: identity and
// metadata are generated and written back through the file store, then
// indexed like any other file.
func (e *Engine) SyncOne(path string) (Action, error) {
	p, err := e.files.Read(path)
	if err != nil {
		return Unchanged, err
	}

	if !p.HasMetadata() {
		p, err = e.adopt(path, p)
		if err != nil {
			return Unchanged, err
		}
	}

	if err := p.Validate(); err != nil {
		return Unchanged, fmt.Errorf("invalid frontmatter in %s: %w", path, err)
	}

	hash := e.files.Hash(p.Content)
	tags := prompt.NormalizeTags(p.Tags)
	row := rowFrom(p, path, hash)

	existing, err := e.idx.GetPrompt(p.ID)
	if err != nil {
		return Unchanged, err
	}

	if existing == nil {
		if err := e.idx.InsertPrompt(row, p.Content); err != nil {
			return Unchanged, err
		}
		if len(tags) > 0 {
			if err := e.idx.ReplaceTags(p.ID, tags); err != nil {
				return Unchanged, err
			}
		}
		return Created, nil
	}

	linked, err := e.idx.TagsForPrompt(p.ID)
	if err != nil {
		return Unchanged, err
	}

	rowChanged := !sameRow(existing, row)
	tagsChanged := !sameTagSet(linked, tags)
	if !rowChanged && !tagsChanged {
		return Unchanged, nil
	}

	if rowChanged {
		if err := e.idx.UpdatePrompt(row, p.Content); err != nil {
			return Unchanged, err
		}
	}
	if tagsChanged {
		if err := e.idx.ReplaceTags(p.ID, tags); err != nil {
			return Unchanged, err
		}
	}
	return Updated, nil
}

// adopt assigns identity and metadata to a raw headerless file and writes
// the frontmatter back so the file becomes the canonical record.
func (e *Engine) adopt(path string, p *prompt.Prompt) (*prompt.Prompt, error) {
	now := time.Now().UTC().Truncate(time.Second)
	p.ID = uuid.NewString()
	p.Name = strings.TrimSuffix(filepath.Base(path), filestore.Extension)
	p.Created = now
	p.Updated = now
	p.Version = 1

	if err := e.files.Write(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SyncReport tallies a full reconciliation pass.
type SyncReport struct {
	Scanned int               `json:"scanned"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Removed int               `json:"removed"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SyncAll reconciles every file under the store root and removes index
// rows whose files are gone. Per-file read and parse failures are captured
// per path and do not abort the batch; an index failure does, since no
// further progress is possible.
func (e *Engine) SyncAll() (*SyncReport, error) {
	paths, err := e.files.List()
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Scanned: len(paths)}
	live := make(map[string]bool, len(paths))

	for _, path := range paths {
		live[path] = true

		action, err := e.SyncOne(path)
		if err != nil {
			var idxErr *index.Error
			if errors.As(err, &idxErr) {
				return nil, err
			}
			if report.Errors == nil {
				report.Errors = make(map[string]string)
			}
			report.Errors[path] = err.Error()
			continue
		}

		switch action {
		case Created:
			report.Created++
		case Updated:
			report.Updated++
		}
	}

	rows, err := e.idx.AllRows()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if live[row.FilePath] {
			continue
		}
		if err := e.idx.DeletePrompt(row.ID); err != nil {
			return nil, err
		}
		report.Removed++
	}

	if err := e.idx.SetLastSync(time.Now().UTC()); err != nil {
		return nil, err
	}

	return report, nil
}

// rowFrom projects a prompt into its index row. The index stores
// timestamps as RFC3339, whole seconds; truncating here keeps the
// comparison against a stored row stable even when the frontmatter
// carries sub-second precision.
func rowFrom(p *prompt.Prompt, path, hash string) *index.PromptRow {
	return &index.PromptRow{
		ID:            p.ID,
		Name:          p.Name,
		ContentHash:   hash,
		FilePath:      path,
		CreatedAt:     p.Created.Truncate(time.Second),
		UpdatedAt:     p.Updated.Truncate(time.Second),
		Version:       p.Version,
		IsTemplate:    p.IsTemplate,
		IsFavorite:    p.IsFavorite,
		FavoriteOrder: p.FavoriteOrder,
		IsPinned:      p.IsPinned,
		PinOrder:      p.PinOrder,
	}
}

func sameRow(a, b *index.PromptRow) bool {
	return a.Name == b.Name &&
		a.ContentHash == b.ContentHash &&
		a.FilePath == b.FilePath &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt) &&
		a.Version == b.Version &&
		a.IsTemplate == b.IsTemplate &&
		a.IsFavorite == b.IsFavorite &&
		a.FavoriteOrder == b.FavoriteOrder &&
		a.IsPinned == b.IsPinned &&
		a.PinOrder == b.PinOrder
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[strings.ToLower(tag)] = true
	}
	for _, tag := range b {
		if !set[strings.ToLower(tag)] {
			return false
		}
	}
	return true
}
