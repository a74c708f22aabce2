package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hypandra/spellbetternow/internal/store"
)

// AttemptRepo implements store.AttemptStore over the attempts and
// mini_set_summaries tables.
type AttemptRepo struct {
	db *sql.DB
}

var attemptColumns = []string{
	"id", "session_id", "learner_id", "word_id", "word_text", "typed_text",
	"correct", "latency_ms", "replay_count", "edit_count", "prompt_mode", "created_at",
}

func scanAttempt(row squirrel.RowScanner) (store.Attempt, error) {
	var a store.Attempt
	err := row.Scan(&a.ID, &a.SessionID, &a.LearnerID, &a.WordID, &a.WordText, &a.TypedText,
		&a.Correct, &a.LatencyMs, &a.ReplayCount, &a.EditCount, &a.PromptMode, &a.CreatedAt)
	return a, err
}

func (r *AttemptRepo) RecordAttempt(ctx context.Context, sessionID, learnerID string, attempt store.Attempt, meta store.RatingDelta) (string, error) {
	id := uuid.NewString()
	createdAt := attempt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query, args, err := sqlBuilder.Insert("attempts").
		Columns("id", "session_id", "learner_id", "word_id", "word_text", "typed_text",
			"correct", "latency_ms", "replay_count", "edit_count", "prompt_mode",
			"delta", "learner_rating_post", "word_rating_post", "created_at").
		Values(id, sessionID, learnerID, attempt.WordID, attempt.WordText, attempt.TypedText,
			attempt.Correct, attempt.LatencyMs, attempt.ReplayCount, attempt.EditCount, attempt.PromptMode,
			meta.Delta, meta.LearnerRatingPost, meta.WordRatingPost, createdAt).ToSql()
	if err != nil {
		return "", fmt.Errorf("build record attempt: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("record attempt: %w", err)
	}
	return id, nil
}

func (r *AttemptRepo) RecordMiniSetSummary(ctx context.Context, sessionID string, summary store.MiniSetSummary) error {
	wordIDs, err := json.Marshal(summary.WordIDs)
	if err != nil {
		return fmt.Errorf("encode word ids: %w", err)
	}
	query, args, err := sqlBuilder.Insert("mini_set_summaries").
		Columns("id", "session_id", "set_number", "word_ids", "correct_count", "confidence_delta", "action", "created_at").
		Values(uuid.NewString(), sessionID, summary.SetNumber, string(wordIDs),
			summary.CorrectCount, summary.ConfidenceDelta, summary.Action, time.Now()).ToSql()
	if err != nil {
		return fmt.Errorf("build record summary: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record mini-set summary: %w", err)
	}
	return nil
}

func (r *AttemptRepo) ListMiniSetSummariesForSession(ctx context.Context, sessionID string) ([]store.MiniSetSummary, error) {
	query, args, err := sqlBuilder.
		Select("set_number", "word_ids", "correct_count", "confidence_delta", "action").
		From("mini_set_summaries").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("set_number ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list summaries: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mini-set summaries: %w", err)
	}
	defer rows.Close()

	var out []store.MiniSetSummary
	for rows.Next() {
		var s store.MiniSetSummary
		var wordIDs string
		if err := rows.Scan(&s.SetNumber, &wordIDs, &s.CorrectCount, &s.ConfidenceDelta, &s.Action); err != nil {
			return nil, fmt.Errorf("scan mini-set summary: %w", err)
		}
		if err := json.Unmarshal([]byte(wordIDs), &s.WordIDs); err != nil {
			return nil, fmt.Errorf("decode word ids: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *AttemptRepo) ListAttemptsForSession(ctx context.Context, sessionID string) ([]store.Attempt, error) {
	query, args, err := sqlBuilder.Select(attemptColumns...).From("attempts").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list attempts: %w", err)
	}
	return r.queryAttempts(ctx, query, args)
}

func (r *AttemptRepo) ListDistinctWordIDsForSession(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT word_id FROM attempts WHERE session_id = ?", sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session word ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan word id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AttemptRepo) ListRecentAttempts(ctx context.Context, learnerID string, limit int) ([]store.Attempt, error) {
	query, args, err := sqlBuilder.Select(attemptColumns...).From("attempts").
		Where(squirrel.Eq{"learner_id": learnerID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent attempts: %w", err)
	}
	return r.queryAttempts(ctx, query, args)
}

func (r *AttemptRepo) queryAttempts(ctx context.Context, query string, args []interface{}) ([]store.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []store.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AccuracyForLearner returns lifetime attempt and correct counts straight
// from the attempt log. Used by the stats command.
func (r *AttemptRepo) AccuracyForLearner(ctx context.Context, learnerID string) (total, correct int, err error) {
	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM attempts WHERE learner_id = ?
`, learnerID).Scan(&total, &correct)
	if err != nil {
		return 0, 0, fmt.Errorf("learner accuracy: %w", err)
	}
	return total, correct, nil
}
