package store

import (
	sq "github.com/Masterminds/squirrel"
)

// Totals is the storage-wide aggregate get_context_stats reports:
// counts of active files, chunks, and embeddings, plus total indexed
// bytes.
type Totals struct {
	Files      int
	Chunks     int
	Embeddings int
	Bytes      int64
}

// LanguageCount is one language's share of the active file set.
type LanguageCount struct {
	Language string
	Files    int
}

// Totals computes the current storage totals over active (non-deleted)
// files and their chunks/embeddings.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	row := sq.Select("COUNT(*)", "COALESCE(SUM(size_bytes), 0)").
		From("file_state").
		Where(sq.Eq{"is_deleted": false}).
		RunWith(s.db).QueryRow()
	if err := row.Scan(&t.Files, &t.Bytes); err != nil {
		return Totals{}, err
	}

	row = sq.Select("COUNT(*)").
		From("chunks").
		Join("file_state ON file_state.file_id = chunks.file_id").
		Where(sq.Eq{"file_state.is_deleted": false}).
		RunWith(s.db).QueryRow()
	if err := row.Scan(&t.Chunks); err != nil {
		return Totals{}, err
	}

	row = sq.Select("COUNT(*)").
		From("embeddings").
		Join("chunks ON chunks.chunk_id = embeddings.chunk_id").
		Join("file_state ON file_state.file_id = chunks.file_id").
		Where(sq.Eq{"file_state.is_deleted": false}).
		RunWith(s.db).QueryRow()
	if err := row.Scan(&t.Embeddings); err != nil {
		return Totals{}, err
	}

	return t, nil
}

// LanguageDistribution returns the active file count per language,
// descending by count. Files with no recorded language are grouped under
// the empty string.
func (s *Store) LanguageDistribution() ([]LanguageCount, error) {
	rows, err := sq.Select("COALESCE(language, '')", "COUNT(*)").
		From("file_state").
		Where(sq.Eq{"is_deleted": false}).
		GroupBy("language").
		OrderBy("COUNT(*) DESC").
		RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LanguageCount
	for rows.Next() {
		var lc LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Files); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}
