package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hypandra/spellbetternow/internal/rating"
	"github.com/hypandra/spellbetternow/internal/store"
)

// LearnerRepo implements store.LearnerStore over the learners table.
type LearnerRepo struct {
	db *sql.DB
}

var learnerColumns = []string{"id", "name", "rating", "tier", "total_attempts", "successful_attempts"}

func scanLearner(row squirrel.RowScanner) (store.Learner, error) {
	var l store.Learner
	err := row.Scan(&l.ID, &l.Name, &l.Rating, &l.Tier, &l.TotalAttempts, &l.SuccessfulAttempts)
	return l, err
}

func (r *LearnerRepo) GetLearner(ctx context.Context, learnerID string) (*store.Learner, error) {
	query, args, err := sqlBuilder.Select(learnerColumns...).From("learners").Where(squirrel.Eq{"id": learnerID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get learner: %w", err)
	}
	l, err := scanLearner(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrLearnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get learner: %w", err)
	}
	return &l, nil
}

// GetLearnerByName resolves a learner by display name. Used by the CLI.
func (r *LearnerRepo) GetLearnerByName(ctx context.Context, name string) (*store.Learner, error) {
	query, args, err := sqlBuilder.Select(learnerColumns...).From("learners").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get learner: %w", err)
	}
	l, err := scanLearner(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrLearnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get learner by name: %w", err)
	}
	return &l, nil
}

// GetLearnerPercentileRank returns the learner's mid-rank percentile among
// all learners' ratings. A lone learner lands at 0.5, the middle band.
func (r *LearnerRepo) GetLearnerPercentileRank(ctx context.Context, learnerID string) (float64, error) {
	learner, err := r.GetLearner(ctx, learnerID)
	if err != nil {
		return 0, err
	}

	var below, equal, total int
	err = r.db.QueryRowContext(ctx, `
SELECT
	(SELECT COUNT(*) FROM learners WHERE rating < ?),
	(SELECT COUNT(*) FROM learners WHERE rating = ?),
	(SELECT COUNT(*) FROM learners)
`, learner.Rating, learner.Rating).Scan(&below, &equal, &total)
	if err != nil {
		return 0, fmt.Errorf("percentile rank: %w", err)
	}
	if total == 0 {
		return 0.5, nil
	}
	return (float64(below) + float64(equal)/2) / float64(total), nil
}

func (r *LearnerRepo) UpdateLearnerRating(ctx context.Context, learnerID string, ratingValue, totalAttempts, successfulAttempts int) error {
	query, args, err := sqlBuilder.Update("learners").
		Set("rating", ratingValue).
		Set("total_attempts", totalAttempts).
		Set("successful_attempts", successfulAttempts).
		Where(squirrel.Eq{"id": learnerID}).ToSql()
	if err != nil {
		return fmt.Errorf("build rating update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update learner rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrLearnerNotFound
	}
	return nil
}

func (r *LearnerRepo) UpdateLearnerTier(ctx context.Context, learnerID string, tier int) error {
	query, args, err := sqlBuilder.Update("learners").Set("tier", tier).Where(squirrel.Eq{"id": learnerID}).ToSql()
	if err != nil {
		return fmt.Errorf("build tier update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update learner tier: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrLearnerNotFound
	}
	return nil
}

// CreateLearner registers a new learner at the given tier, seeded with that
// tier's default rating.
func (r *LearnerRepo) CreateLearner(ctx context.Context, name string, tier int) (*store.Learner, error) {
	l := store.Learner{
		ID:     uuid.NewString(),
		Name:   name,
		Rating: rating.DefaultRatingForTier(tier),
		Tier:   tier,
	}
	query, args, err := sqlBuilder.Insert("learners").
		Columns(learnerColumns...).
		Values(l.ID, l.Name, l.Rating, l.Tier, 0, 0).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create learner: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create learner %q: %w", name, err)
	}
	return &l, nil
}

// ListLearners returns every learner, ordered by name.
func (r *LearnerRepo) ListLearners(ctx context.Context) ([]store.Learner, error) {
	query, args, err := sqlBuilder.Select(learnerColumns...).From("learners").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list learners: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	defer rows.Close()

	var out []store.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan learner: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
