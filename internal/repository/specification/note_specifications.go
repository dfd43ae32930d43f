package specification

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NoteSearchQuery is a case-insensitive substring match on title or content.
// The query is matched literally: LIKE wildcards in it are escaped.
// LOWER/LIKE instead of ILIKE keeps it portable between Postgres and SQLite.
type NoteSearchQuery struct {
	Query string
}

func (s NoteSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return db
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	return db.Where(
		`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`,
		pattern, pattern,
	)
}
