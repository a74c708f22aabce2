package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hypandra/spellbetternow/internal/store"
)

// SessionRepo implements store.SessionStore over the sessions table. The
// active word list is stored as a JSON array column.
type SessionRepo struct {
	db *sql.DB
}

func (r *SessionRepo) CreateSession(ctx context.Context, learnerID string, startTier int, initialWordIDs []string) (*store.Session, error) {
	wordIDs, err := json.Marshal(initialWordIDs)
	if err != nil {
		return nil, fmt.Errorf("encode word ids: %w", err)
	}
	sess := &store.Session{
		ID:          uuid.NewString(),
		LearnerID:   learnerID,
		StartTier:   startTier,
		CurrentTier: startTier,
		WordIDs:     append([]string(nil), initialWordIDs...),
		StartedAt:   time.Now(),
	}
	query, args, err := sqlBuilder.Insert("sessions").
		Columns("id", "learner_id", "start_tier", "current_tier", "word_ids", "current_index", "started_at").
		Values(sess.ID, learnerID, startTier, startTier, string(wordIDs), 0, sess.StartedAt).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create session: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (r *SessionRepo) UpdateSessionProgress(ctx context.Context, sessionID string, wordIDs []string, index int, tier *int) error {
	encoded, err := json.Marshal(wordIDs)
	if err != nil {
		return fmt.Errorf("encode word ids: %w", err)
	}
	q := sqlBuilder.Update("sessions").
		Set("word_ids", string(encoded)).
		Set("current_index", index).
		Where(squirrel.Eq{"id": sessionID})
	if tier != nil {
		q = q.Set("current_tier", *tier)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build progress update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) IncrementMiniSetsCompleted(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET mini_sets_completed = mini_sets_completed + 1 WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("count mini-set: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) EndSession(ctx context.Context, sessionID string, stats store.SessionStats) error {
	query, args, err := sqlBuilder.Update("sessions").
		Set("attempts_total", stats.AttemptsTotal).
		Set("correct_total", stats.CorrectTotal).
		Set("mini_sets_completed", stats.MiniSetsCompleted).
		Set("current_tier", stats.FinalTier).
		Set("final_rating", stats.FinalRating).
		Set("ended_at", time.Now()).
		Where(squirrel.Eq{"id": sessionID}).ToSql()
	if err != nil {
		return fmt.Errorf("build end session: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*store.Session, error) {
	var (
		sess    store.Session
		wordIDs string
		endedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, learner_id, start_tier, current_tier, word_ids, current_index, mini_sets_completed, started_at, ended_at
FROM sessions WHERE id = ?
`, sessionID).Scan(&sess.ID, &sess.LearnerID, &sess.StartTier, &sess.CurrentTier,
		&wordIDs, &sess.CurrentIndex, &sess.MiniSetsCompleted, &sess.StartedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal([]byte(wordIDs), &sess.WordIDs); err != nil {
		return nil, fmt.Errorf("decode word ids: %w", err)
	}
	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	return &sess, nil
}

// LatestOpenSession returns the learner's most recent unfinished session,
// or ErrSessionNotFound when every session has ended. Used by resume.
func (r *SessionRepo) LatestOpenSession(ctx context.Context, learnerID string) (*store.Session, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
SELECT id FROM sessions WHERE learner_id = ? AND ended_at IS NULL ORDER BY started_at DESC LIMIT 1
`, learnerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest open session: %w", err)
	}
	return r.GetSession(ctx, id)
}
