package index

import (
	"strings"
)

// SearchFTS performs a full-text match over prompt names and bodies and
// returns matching rows. The query is escaped for FTS5; a query the engine
// still rejects surfaces as an *Error so callers can fall back to
// substring matching.
func (d *DB) SearchFTS(query string) ([]PromptRow, error) {
	ftsQuery := PrepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`SELECT `+promptColumns+` FROM prompts
		WHERE id IN (SELECT id FROM prompts_fts WHERE prompts_fts MATCH ?)
		ORDER BY name`, ftsQuery)
	if err != nil {
		return nil, indexErr("searching", err)
	}
	defer rows.Close()

	return scanPrompts(rows)
}

// SearchSubstring performs a case-insensitive substring match over names
// and bodies. This is the documented fallback for queries FTS5 cannot
// parse.
func (d *DB) SearchSubstring(query string) ([]PromptRow, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := d.db.Query(`SELECT `+promptColumns+` FROM prompts
		WHERE id IN (
			SELECT id FROM prompts_fts
			WHERE name LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		)
		ORDER BY name`, pattern, pattern)
	if err != nil {
		return nil, indexErr("searching", err)
	}
	defer rows.Close()

	return scanPrompts(rows)
}

// MatchSyntaxError reports whether err is FTS5 rejecting the query text
// itself (bare operators, stray syntax) rather than a failure of the
// store. Only the former is safe to retry as a substring search.
func MatchSyntaxError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "fts5")
}

// PrepareFTSQuery escapes special characters for FTS5 queries.
func PrepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		// Escape internal quotes and wrap in quotes
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
