package index

import (
	"database/sql"
	"time"
)

// PromptRow is the index-resident form of a prompt: denormalized metadata
// plus the content fingerprint and file location. Bodies live only in the
// file store.
type PromptRow struct {
	ID            string
	Name          string
	ContentHash   string
	FilePath      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int
	IsTemplate    bool
	IsFavorite    bool
	FavoriteOrder int
	IsPinned      bool
	PinOrder      int
}

const promptColumns = `id, name, content_hash, file_path, created_at, updated_at, version,
	is_template, is_favorite, favorite_order, is_pinned, pin_order`

// GetPrompt retrieves a prompt row by id. Returns (nil, nil) when absent.
func (d *DB) GetPrompt(id string) (*PromptRow, error) {
	row := d.db.QueryRow(`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id)
	return scanPrompt(row)
}

// GetPromptByName retrieves a prompt row by exact name. Returns (nil, nil)
// when absent. Name comparison is case-sensitive by design; tag names are
// the case-insensitive namespace, prompt names are not.
func (d *DB) GetPromptByName(name string) (*PromptRow, error) {
	row := d.db.QueryRow(`SELECT `+promptColumns+` FROM prompts WHERE name = ? ORDER BY id LIMIT 1`, name)
	return scanPrompt(row)
}

// GetPromptByPath retrieves a prompt row by file path. Returns (nil, nil)
// when absent.
func (d *DB) GetPromptByPath(path string) (*PromptRow, error) {
	row := d.db.QueryRow(`SELECT `+promptColumns+` FROM prompts WHERE file_path = ? LIMIT 1`, path)
	return scanPrompt(row)
}

// ListPrompts returns all prompt rows: pinned first (by pin order), then
// favorites (by favorite order), then the rest by name.
func (d *DB) ListPrompts() ([]PromptRow, error) {
	rows, err := d.db.Query(`SELECT ` + promptColumns + ` FROM prompts
		ORDER BY is_pinned DESC, CASE WHEN is_pinned THEN pin_order ELSE 0 END,
			is_favorite DESC, CASE WHEN is_favorite THEN favorite_order ELSE 0 END,
			name`)
	if err != nil {
		return nil, indexErr("listing prompts", err)
	}
	defer rows.Close()

	return scanPrompts(rows)
}

// AllRows returns every prompt row in no particular order. Used by the
// reconciliation engine for removal detection and integrity audits.
func (d *DB) AllRows() ([]PromptRow, error) {
	rows, err := d.db.Query(`SELECT ` + promptColumns + ` FROM prompts`)
	if err != nil {
		return nil, indexErr("listing prompt rows", err)
	}
	defer rows.Close()

	return scanPrompts(rows)
}

// CountPrompts returns the number of indexed prompts.
func (d *DB) CountPrompts() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM prompts").Scan(&count)
	return count, indexErr("counting prompts", err)
}

// InsertPrompt inserts a prompt row and its full-text entry. The caller
// supplies the body for the search entry; the row itself stores only the
// fingerprint.
func (d *DB) InsertPrompt(row *PromptRow, content string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return indexErr("inserting prompt", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO prompts (`+promptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Name, row.ContentHash, row.FilePath,
		row.CreatedAt.Format(time.RFC3339), row.UpdatedAt.Format(time.RFC3339), row.Version,
		boolInt(row.IsTemplate), boolInt(row.IsFavorite), row.FavoriteOrder,
		boolInt(row.IsPinned), row.PinOrder)
	if err != nil {
		return indexErr("inserting prompt", err)
	}

	_, err = tx.Exec(`INSERT INTO prompts_fts (id, name, content) VALUES (?, ?, ?)`,
		row.ID, row.Name, content)
	if err != nil {
		return indexErr("inserting search entry", err)
	}

	return indexErr("inserting prompt", tx.Commit())
}

// UpdatePrompt overwrites a prompt row and its full-text entry in lockstep.
func (d *DB) UpdatePrompt(row *PromptRow, content string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return indexErr("updating prompt", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE prompts SET name = ?, content_hash = ?, file_path = ?,
		created_at = ?, updated_at = ?, version = ?,
		is_template = ?, is_favorite = ?, favorite_order = ?, is_pinned = ?, pin_order = ?
		WHERE id = ?`,
		row.Name, row.ContentHash, row.FilePath,
		row.CreatedAt.Format(time.RFC3339), row.UpdatedAt.Format(time.RFC3339), row.Version,
		boolInt(row.IsTemplate), boolInt(row.IsFavorite), row.FavoriteOrder,
		boolInt(row.IsPinned), row.PinOrder,
		row.ID)
	if err != nil {
		return indexErr("updating prompt", err)
	}

	if _, err := tx.Exec(`DELETE FROM prompts_fts WHERE id = ?`, row.ID); err != nil {
		return indexErr("replacing search entry", err)
	}
	_, err = tx.Exec(`INSERT INTO prompts_fts (id, name, content) VALUES (?, ?, ?)`,
		row.ID, row.Name, content)
	if err != nil {
		return indexErr("replacing search entry", err)
	}

	return indexErr("updating prompt", tx.Commit())
}

// DeletePrompt removes a prompt row, its search entry, and its tag links,
// deleting any tag left with zero references.
func (d *DB) DeletePrompt(id string) error {
	tagIDs, err := d.tagIDsForPrompt(id)
	if err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return indexErr("deleting prompt", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prompt_tags WHERE prompt_id = ?`, id); err != nil {
		return indexErr("unlinking tags", err)
	}
	if _, err := tx.Exec(`DELETE FROM prompts_fts WHERE id = ?`, id); err != nil {
		return indexErr("deleting search entry", err)
	}
	if _, err := tx.Exec(`DELETE FROM prompts WHERE id = ?`, id); err != nil {
		return indexErr("deleting prompt", err)
	}
	for _, tagID := range tagIDs {
		if err := pruneTagTx(tx, tagID); err != nil {
			return err
		}
	}

	return indexErr("deleting prompt", tx.Commit())
}

func scanPrompt(row *sql.Row) (*PromptRow, error) {
	p, err := scanPromptFrom(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, indexErr("scanning prompt", err)
	}
	return p, nil
}

func scanPrompts(rows *sql.Rows) ([]PromptRow, error) {
	var out []PromptRow
	for rows.Next() {
		p, err := scanPromptFrom(rows.Scan)
		if err != nil {
			return nil, indexErr("scanning prompt", err)
		}
		out = append(out, *p)
	}
	return out, indexErr("reading prompts", rows.Err())
}

func scanPromptFrom(scan func(...any) error) (*PromptRow, error) {
	var p PromptRow
	var createdAt, updatedAt string
	var isTemplate, isFavorite, isPinned int

	err := scan(&p.ID, &p.Name, &p.ContentHash, &p.FilePath,
		&createdAt, &updatedAt, &p.Version,
		&isTemplate, &isFavorite, &p.FavoriteOrder, &isPinned, &p.PinOrder)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	p.IsTemplate = isTemplate != 0
	p.IsFavorite = isFavorite != 0
	p.IsPinned = isPinned != 0
	return &p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
