package index

import (
	"database/sql"
	"strings"
)

// TagCount is a tag with its live reference count.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagsForPrompt returns the tag names linked to a prompt, sorted.
func (d *DB) TagsForPrompt(id string) ([]string, error) {
	rows, err := d.db.Query(`SELECT t.name FROM tags t
		JOIN prompt_tags pt ON pt.tag_id = t.id
		WHERE pt.prompt_id = ?
		ORDER BY t.name`, id)
	if err != nil {
		return nil, indexErr("listing prompt tags", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, indexErr("scanning tag", err)
		}
		tags = append(tags, name)
	}
	return tags, indexErr("reading tags", rows.Err())
}

// ListTags returns every tag with its reference count, sorted by name.
// The tags table never holds unreferenced tags, so counts are >= 1.
func (d *DB) ListTags() ([]TagCount, error) {
	rows, err := d.db.Query(`SELECT t.name, COUNT(pt.prompt_id) FROM tags t
		LEFT JOIN prompt_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name COLLATE NOCASE`)
	if err != nil {
		return nil, indexErr("listing tags", err)
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, indexErr("scanning tag count", err)
		}
		tags = append(tags, tc)
	}
	return tags, indexErr("reading tags", rows.Err())
}

// PromptIDsForTags returns the ids of prompts carrying any of the given
// tags (OR semantics, case-insensitive). An empty tag set matches nothing.
func (d *DB) PromptIDsForTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
	args := make([]any, len(tags))
	for i, tag := range tags {
		args[i] = tag
	}

	// tags.name is COLLATE NOCASE, so equality here is case-insensitive.
	rows, err := d.db.Query(`SELECT DISTINCT pt.prompt_id FROM prompt_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, indexErr("filtering by tags", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, indexErr("scanning prompt id", err)
		}
		ids = append(ids, id)
	}
	return ids, indexErr("reading prompt ids", rows.Err())
}

// ReplaceTags makes the prompt's tag links equal the given set: missing
// tags are created and linked, stale links are removed, and tags left with
// zero references are deleted.
func (d *DB) ReplaceTags(promptID string, tags []string) error {
	current, err := d.tagIDsForPrompt(promptID)
	if err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return indexErr("replacing tags", err)
	}
	defer tx.Rollback()

	wanted := make(map[int64]bool, len(tags))
	for _, tag := range tags {
		tagID, err := ensureTagTx(tx, tag)
		if err != nil {
			return err
		}
		wanted[tagID] = true
		_, err = tx.Exec(`INSERT OR IGNORE INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)`,
			promptID, tagID)
		if err != nil {
			return indexErr("linking tag", err)
		}
	}

	for _, tagID := range current {
		if wanted[tagID] {
			continue
		}
		_, err := tx.Exec(`DELETE FROM prompt_tags WHERE prompt_id = ? AND tag_id = ?`,
			promptID, tagID)
		if err != nil {
			return indexErr("unlinking tag", err)
		}
		if err := pruneTagTx(tx, tagID); err != nil {
			return err
		}
	}

	return indexErr("replacing tags", tx.Commit())
}

// UpdateTagSpelling rewrites the stored spelling of a tag, matching the
// old name case-insensitively. A no-op when no such tag exists. Callers
// must not use this to merge distinct tags; that is ReplaceTags' job.
func (d *DB) UpdateTagSpelling(oldName, newName string) error {
	_, err := d.db.Exec(`UPDATE tags SET name = ? WHERE name = ?`, newName, oldName)
	return indexErr("renaming tag", err)
}

func (d *DB) tagIDsForPrompt(promptID string) ([]int64, error) {
	rows, err := d.db.Query(`SELECT tag_id FROM prompt_tags WHERE prompt_id = ?`, promptID)
	if err != nil {
		return nil, indexErr("listing tag links", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, indexErr("scanning tag link", err)
		}
		ids = append(ids, id)
	}
	return ids, indexErr("reading tag links", rows.Err())
}

// ensureTagTx finds a tag by name (case-insensitive via COLLATE NOCASE) or
// creates it, returning its id.
func ensureTagTx(tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, indexErr("looking up tag", err)
	}

	res, err := tx.Exec(`INSERT INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return 0, indexErr("creating tag", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, indexErr("creating tag", err)
	}
	return id, nil
}

// pruneTagTx deletes a tag when no prompt references it anymore.
func pruneTagTx(tx *sql.Tx, tagID int64) error {
	var count int
	err := tx.QueryRow(`SELECT COUNT(*) FROM prompt_tags WHERE tag_id = ?`, tagID).Scan(&count)
	if err != nil {
		return indexErr("counting tag references", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := tx.Exec(`DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return indexErr("pruning tag", err)
	}
	return nil
}
