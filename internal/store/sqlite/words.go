package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hypandra/spellbetternow/internal/store"
)

// WordRepo implements store.WordStore over the words table.
type WordRepo struct {
	db *sql.DB
}

var wordColumns = []string{"id", "text", "rating", "tier", "definition", "hint"}

func scanWord(row squirrel.RowScanner) (store.Word, error) {
	var w store.Word
	err := row.Scan(&w.ID, &w.Text, &w.Rating, &w.Tier, &w.Definition, &w.Hint)
	return w, err
}

func (r *WordRepo) QueryWordsByRatingBand(ctx context.Context, centerRating, tolerance int, excludeIDs []string) ([]store.Word, error) {
	q := sqlBuilder.Select(wordColumns...).From("words")
	if tolerance >= 0 {
		q = q.Where(squirrel.And{
			squirrel.GtOrEq{"rating": centerRating - tolerance},
			squirrel.LtOrEq{"rating": centerRating + tolerance},
		})
	}
	if len(excludeIDs) > 0 {
		q = q.Where(squirrel.NotEq{"id": excludeIDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build band query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query words by band: %w", err)
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

func (r *WordRepo) GetWord(ctx context.Context, id string) (*store.Word, error) {
	query, args, err := sqlBuilder.Select(wordColumns...).From("words").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get word: %w", err)
	}
	w, err := scanWord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrWordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	return &w, nil
}

func (r *WordRepo) UpdateWordRating(ctx context.Context, id string, newRating int) error {
	query, args, err := sqlBuilder.Update("words").Set("rating", newRating).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build rating update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update word rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrWordNotFound
	}
	return nil
}

func (r *WordRepo) GetWordsByIDs(ctx context.Context, ids []string) ([]store.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlBuilder.Select(wordColumns...).From("words").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get words: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get words by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]store.Word)
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve caller order.
	out := make([]store.Word, 0, len(byID))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			out = append(out, w)
			delete(byID, id)
		}
	}
	return out, nil
}

// UpsertWord inserts a word or refreshes its definition, hint, and tier,
// keeping the live rating untouched on conflict. Used by the import command.
func (r *WordRepo) UpsertWord(ctx context.Context, w store.Word) (string, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO words (id, text, rating, tier, definition, hint)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(text) DO UPDATE SET
	tier = excluded.tier,
	definition = excluded.definition,
	hint = excluded.hint
`, w.ID, w.Text, w.Rating, w.Tier, w.Definition, w.Hint)
	if err != nil {
		return "", fmt.Errorf("upsert word %q: %w", w.Text, err)
	}
	return w.ID, nil
}

// CountWords returns the size of the word bank.
func (r *WordRepo) CountWords(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words").Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}
