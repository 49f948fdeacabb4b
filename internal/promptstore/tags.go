package promptstore

import (
	"strings"
	"time"

	"github.com/promptkeep/promptkeep/internal/prompt"
)

// RenameTag renames a tag across every prompt carrying it, matching the
// old name case-insensitively. Renaming onto an existing tag merges the
// two: prompts already carrying both end up with one link. Tags live in
// the prompt files, so each affected file is rewritten (with a version
// bump) and re-projected; the index follows.
//
// Returns the number of prompts touched.
func (s *Service) RenameTag(oldName, newName string) (int, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, &ValidationError{Reason: "tag names must not be empty"}
	}

	ids, err := s.idx.PromptIDsForTags([]string{oldName})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, notFound("tag", oldName)
	}

	// Renaming a tag onto its own exact spelling changes nothing; skip
	// the file rewrites and version bumps.
	if oldName == newName {
		return 0, nil
	}

	now := s.now().UTC().Truncate(time.Second)
	for _, id := range ids {
		row, err := s.idx.GetPrompt(id)
		if err != nil {
			return 0, err
		}
		if row == nil {
			continue
		}

		p, err := s.files.Read(row.FilePath)
		if err != nil {
			return 0, err
		}

		retagged := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, oldName) {
				tag = newName
			}
			retagged = append(retagged, tag)
		}
		p.Tags = prompt.NormalizeTags(retagged)

		p.Version++
		p.Updated = now

		if err := s.files.Write(row.FilePath, p); err != nil {
			return 0, err
		}
		if _, err := s.engine.SyncOne(row.FilePath); err != nil {
			return 0, err
		}
	}

	// A case-only rename leaves the case-insensitive tag set unchanged,
	// so the projection above never touches the tag row; fix the stored
	// spelling directly.
	if strings.EqualFold(oldName, newName) {
		if err := s.idx.UpdateTagSpelling(oldName, newName); err != nil {
			return 0, err
		}
	}

	return len(ids), nil
}
