package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hypandra/spellbetternow/internal/store"
)

// ListRepo implements store.CustomListStore over the custom_lists tables.
type ListRepo struct {
	db *sql.DB
}

func (r *ListRepo) GetEnabledListWordsForLearner(ctx context.Context, learnerID string) ([]store.Word, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT w.id, w.text, w.rating, w.tier, w.definition, w.hint
FROM words w
JOIN custom_list_words clw ON clw.word_id = w.id
JOIN custom_lists cl ON cl.id = clw.list_id
WHERE cl.learner_id = ? AND cl.enabled = 1
`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("enabled list words: %w", err)
	}
	defer rows.Close()

	var words []store.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// CreateList creates a curated list for the learner with the given words.
func (r *ListRepo) CreateList(ctx context.Context, learnerID, name string, wordIDs []string, enabled bool) (string, error) {
	listID := uuid.NewString()
	query, args, err := sqlBuilder.Insert("custom_lists").
		Columns("id", "learner_id", "name", "enabled").
		Values(listID, learnerID, name, enabled).ToSql()
	if err != nil {
		return "", fmt.Errorf("build create list: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("create list %q: %w", name, err)
	}
	for _, wordID := range wordIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO custom_list_words (list_id, word_id) VALUES (?, ?)", listID, wordID); err != nil {
			return "", fmt.Errorf("add word to list: %w", err)
		}
	}
	return listID, nil
}

// SetListEnabled toggles a curated list.
func (r *ListRepo) SetListEnabled(ctx context.Context, listID string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE custom_lists SET enabled = ? WHERE id = ?", enabled, listID)
	if err != nil {
		return fmt.Errorf("toggle list: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
