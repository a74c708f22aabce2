package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/hypandra/spellbetternow/internal/store"
)

// masteryMax is the saturation ceiling of the per-word counter.
const masteryMax = 3

// MasteryRepo implements store.MasteryStore over the mastery table.
type MasteryRepo struct {
	db *sql.DB
}

func (r *MasteryRepo) BumpMastery(ctx context.Context, learnerID, wordID string, correct bool) error {
	step := -1
	if correct {
		step = 1
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO mastery (learner_id, word_id, score, last_correct, last_attempt_at)
VALUES (?, ?, MAX(0, MIN(?, ?)), ?, ?)
ON CONFLICT(learner_id, word_id) DO UPDATE SET
	score = MAX(0, MIN(?, score + ?)),
	last_correct = excluded.last_correct,
	last_attempt_at = excluded.last_attempt_at
`, learnerID, wordID, masteryMax, step, correct, time.Now(), masteryMax, step)
	if err != nil {
		return fmt.Errorf("bump mastery: %w", err)
	}
	return nil
}

func (r *MasteryRepo) GetMastery(ctx context.Context, learnerID string, wordIDs []string) (map[string]store.MasteryRecord, error) {
	out := make(map[string]store.MasteryRecord)
	if len(wordIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlBuilder.
		Select("learner_id", "word_id", "score", "last_correct", "last_attempt_at").
		From("mastery").
		Where(squirrel.Eq{"learner_id": learnerID, "word_id": wordIDs}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get mastery: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get mastery: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec store.MasteryRecord
		if err := rows.Scan(&rec.LearnerID, &rec.WordID, &rec.Score, &rec.LastCorrect, &rec.LastAttemptAt); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		out[rec.WordID] = rec
	}
	return out, rows.Err()
}
