package store

import (
	"context"
	"errors"
)

// Sentinel errors surfaced by store implementations. The engine treats all
// of these as hard failures and never retries.
var (
	ErrWordNotFound    = errors.New("word not found")
	ErrLearnerNotFound = errors.New("learner not found")
	ErrSessionNotFound = errors.New("session not found")
)

// WordStore provides rating-banded access to the word bank.
type WordStore interface {
	// QueryWordsByRatingBand returns words whose rating lies within
	// [centerRating-tolerance, centerRating+tolerance], excluding the
	// given ids. A tolerance < 0 means no rating filter.
	QueryWordsByRatingBand(ctx context.Context, centerRating, tolerance int, excludeIDs []string) ([]Word, error)
	GetWord(ctx context.Context, id string) (*Word, error)
	UpdateWordRating(ctx context.Context, id string, newRating int) error
	GetWordsByIDs(ctx context.Context, ids []string) ([]Word, error)
}

// LearnerStore persists learner skill state.
type LearnerStore interface {
	GetLearner(ctx context.Context, learnerID string) (*Learner, error)
	// GetLearnerPercentileRank returns the learner's rank in [0,1] among
	// all learners' ratings.
	GetLearnerPercentileRank(ctx context.Context, learnerID string) (float64, error)
	UpdateLearnerRating(ctx context.Context, learnerID string, ratingValue, totalAttempts, successfulAttempts int) error
	UpdateLearnerTier(ctx context.Context, learnerID string, tier int) error
}

// AttemptStore persists scored attempts and mini-set summaries.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, sessionID, learnerID string, attempt Attempt, meta RatingDelta) (string, error)
	RecordMiniSetSummary(ctx context.Context, sessionID string, summary MiniSetSummary) error
	ListAttemptsForSession(ctx context.Context, sessionID string) ([]Attempt, error)
	// ListMiniSetSummariesForSession returns the session's summaries in set
	// order; resume replays their confidence deltas.
	ListMiniSetSummariesForSession(ctx context.Context, sessionID string) ([]MiniSetSummary, error)
	ListDistinctWordIDsForSession(ctx context.Context, sessionID string) ([]string, error)
	// ListRecentAttempts returns the learner's most recent scored attempts
	// across sessions, newest first, capped at limit.
	ListRecentAttempts(ctx context.Context, learnerID string, limit int) ([]Attempt, error)
}

// SessionStore persists session rows.
type SessionStore interface {
	CreateSession(ctx context.Context, learnerID string, startTier int, initialWordIDs []string) (*Session, error)
	// UpdateSessionProgress replaces the active word list and index; tier
	// is only written when non-nil.
	UpdateSessionProgress(ctx context.Context, sessionID string, wordIDs []string, index int, tier *int) error
	// IncrementMiniSetsCompleted bumps the session's completed-set counter,
	// which resume uses to tell a pending break from a fresh set.
	IncrementMiniSetsCompleted(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string, stats SessionStats) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}

// MasteryStore maintains the saturating per-(learner, word) counters.
type MasteryStore interface {
	BumpMastery(ctx context.Context, learnerID, wordID string, correct bool) error
	// GetMastery returns records keyed by word id; absent words have no
	// entry.
	GetMastery(ctx context.Context, learnerID string, wordIDs []string) (map[string]MasteryRecord, error)
}

// CustomListStore provides the learner's curated word lists.
type CustomListStore interface {
	GetEnabledListWordsForLearner(ctx context.Context, learnerID string) ([]Word, error)
}
