// Package promptstore is the CRUD surface consumed by the CLI. It
// sequences file store writes and index projections (file first, index
// second) and enforces the cross-cutting invariants neither lower layer
// enforces alone: name uniqueness among live prompts and version
// increments on every mutation.
package promptstore

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/index"
	"github.com/promptkeep/promptkeep/internal/prompt"
	"github.com/promptkeep/promptkeep/internal/reconcile"
)

// Service exposes prompt CRUD on top of the dual store.
type Service struct {
	files  *filestore.Store
	idx    *index.DB
	engine *reconcile.Engine

	now func() time.Time
}

// New creates a service over the given stores.
func New(files *filestore.Store, idx *index.DB) *Service {
	return &Service{
		files:  files,
		idx:    idx,
		engine: reconcile.New(files, idx),
		now:    time.Now,
	}
}

// Engine returns the underlying reconciliation engine, exposed for
// maintenance commands (sync, check).
func (s *Service) Engine() *reconcile.Engine {
	return s.engine
}

// Stored couples a fully-hydrated prompt with its file location.
type Stored struct {
	*prompt.Prompt
	Path string
}

// Summary is index-backed prompt metadata plus linked tags, without the
// body.
type Summary struct {
	index.PromptRow
	Tags []string
}

// CreateParams are the inputs to Create. Name and Content are required
// in the sense that Name must be non-empty.
type CreateParams struct {
	Name          string
	Content       string
	Tags          []string
	IsTemplate    bool
	IsFavorite    bool
	FavoriteOrder int
	IsPinned      bool
	PinOrder      int
}

// Create allocates a new prompt: writes its file, then projects it into
// the index. If the projection fails after a successful file write, the
// prompt is durable on disk but invisible to index-backed queries until
// the next sync; the file store is the ground truth, not a two-phase
// commit.
func (s *Service) Create(params CreateParams) (*Stored, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &ValidationError{Reason: "name must not be empty"}
	}

	existing, err := s.idx.GetPromptByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateName(name)
	}

	now := s.now().UTC().Truncate(time.Second)
	p := &prompt.Prompt{
		ID:            uuid.NewString(),
		Name:          name,
		Created:       now,
		Updated:       now,
		Version:       1,
		Tags:          prompt.NormalizeTags(params.Tags),
		IsTemplate:    params.IsTemplate,
		IsFavorite:    params.IsFavorite,
		FavoriteOrder: params.FavoriteOrder,
		IsPinned:      params.IsPinned,
		PinOrder:      params.PinOrder,
		Content:       params.Content,
	}

	path := s.files.PathFor(name, p.ID)
	if err := s.files.Write(path, p); err != nil {
		return nil, err
	}

	if _, err := s.engine.SyncOne(path); err != nil {
		return nil, err
	}

	return &Stored{Prompt: p, Path: path}, nil
}

// GetByID looks up a prompt's metadata in the index and hydrates the body
// from its file.
func (s *Service) GetByID(id string) (*Stored, error) {
	row, err := s.idx.GetPrompt(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("prompt", id)
	}
	return s.hydrate(row)
}

// GetByName is GetByID keyed by exact name.
func (s *Service) GetByName(name string) (*Stored, error) {
	row, err := s.idx.GetPromptByName(name)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("prompt", name)
	}
	return s.hydrate(row)
}

// List returns metadata for every live prompt: pinned first, then
// favorites, then by name.
func (s *Service) List() ([]Summary, error) {
	rows, err := s.idx.ListPrompts()
	if err != nil {
		return nil, err
	}
	return s.summarize(rows)
}

// FindByTags returns prompts carrying any of the given tags (OR
// semantics, case-insensitive). An empty tag set returns an empty result
// by convention, not everything.
func (s *Service) FindByTags(tags []string) ([]Summary, error) {
	tags = prompt.NormalizeTags(tags)
	if len(tags) == 0 {
		return nil, nil
	}

	ids, err := s.idx.PromptIDsForTags(tags)
	if err != nil {
		return nil, err
	}

	var rows []index.PromptRow
	for _, id := range ids {
		row, err := s.idx.GetPrompt(id)
		if err != nil {
			return nil, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	return s.summarize(rows)
}

// Search full-text-matches the query against prompt names and bodies. An
// empty query returns an empty result. When FTS5 rejects the query
// syntax, the search falls back to a case-insensitive substring match
// rather than silently returning nothing; any other index failure
// surfaces as-is.
func (s *Service) Search(query string) ([]Summary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	rows, err := s.idx.SearchFTS(query)
	if err != nil {
		if !index.MatchSyntaxError(err) {
			return nil, err
		}
		rows, err = s.idx.SearchSubstring(query)
		if err != nil {
			return nil, err
		}
	}

	return s.summarize(rows)
}

// UpdateParams are the optional fields of Update; nil fields are
// preserved unchanged.
type UpdateParams struct {
	Name          *string
	Content       *string
	Tags          *[]string
	IsTemplate    *bool
	IsFavorite    *bool
	FavoriteOrder *int
	IsPinned      *bool
	PinOrder      *int
}

// Update merges the given fields over the existing prompt, increments the
// version by exactly one, rewrites the file, and re-projects it.
func (s *Service) Update(id string, params UpdateParams) (*Stored, error) {
	row, err := s.idx.GetPrompt(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("prompt", id)
	}

	p, err := s.files.Read(row.FilePath)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, &ValidationError{Reason: "name must not be empty"}
		}
		if name != p.Name {
			other, err := s.idx.GetPromptByName(name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != id {
				return nil, duplicateName(name)
			}
		}
		p.Name = name
	}
	if params.Content != nil {
		p.Content = *params.Content
	}
	if params.Tags != nil {
		p.Tags = prompt.NormalizeTags(*params.Tags)
	}
	if params.IsTemplate != nil {
		p.IsTemplate = *params.IsTemplate
	}
	if params.IsFavorite != nil {
		p.IsFavorite = *params.IsFavorite
	}
	if params.FavoriteOrder != nil {
		p.FavoriteOrder = *params.FavoriteOrder
	}
	if params.IsPinned != nil {
		p.IsPinned = *params.IsPinned
	}
	if params.PinOrder != nil {
		p.PinOrder = *params.PinOrder
	}

	p.Version++
	p.Updated = s.now().UTC().Truncate(time.Second)

	if err := s.files.Write(row.FilePath, p); err != nil {
		return nil, err
	}
	if _, err := s.engine.SyncOne(row.FilePath); err != nil {
		return nil, err
	}

	return &Stored{Prompt: p, Path: row.FilePath}, nil
}

// Delete removes a prompt. Hard delete destroys the file and the row;
// soft delete relocates the file to the archive and removes the live row,
// preserving content.
func (s *Service) Delete(id string, hard bool) error {
	row, err := s.idx.GetPrompt(id)
	if err != nil {
		return err
	}
	if row == nil {
		return notFound("prompt", id)
	}

	if hard {
		if err := s.files.Remove(row.FilePath); err != nil {
			return err
		}
	} else {
		if _, err := s.files.Archive(row.FilePath); err != nil {
			return err
		}
	}

	return s.idx.DeletePrompt(id)
}

// ListTags returns every tag with its live reference count.
func (s *Service) ListTags() ([]index.TagCount, error) {
	return s.idx.ListTags()
}

func (s *Service) hydrate(row *index.PromptRow) (*Stored, error) {
	p, err := s.files.Read(row.FilePath)
	if err != nil {
		return nil, err
	}
	return &Stored{Prompt: p, Path: row.FilePath}, nil
}

func (s *Service) summarize(rows []index.PromptRow) ([]Summary, error) {
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		tags, err := s.idx.TagsForPrompt(row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{PromptRow: row, Tags: tags})
	}
	return out, nil
}
