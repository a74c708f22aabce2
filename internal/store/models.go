// Package store declares the collaborator contracts the engine depends on:
// word, learner, attempt, session, mastery, and custom-list persistence.
// The engine only sees these interfaces; the sqlite subpackage provides the
// production implementation and tests substitute in-memory fakes.
package store

import "time"

// PromptMode indicates how a word was presented to the learner.
type PromptMode string

const (
	PromptAudio   PromptMode = "audio"
	PromptNoAudio PromptMode = "no-audio"
)

// Word is one entry of the word bank.
type Word struct {
	ID         string
	Text       string
	Rating     int
	Tier       int
	Definition string
	Hint       string
}

// Learner is the engine's view of a kid's skill state.
type Learner struct {
	ID                 string
	Name               string
	Rating             int
	Tier               int
	TotalAttempts      int
	SuccessfulAttempts int
}

// Attempt is the immutable record of one scored submission. Diagnostic
// (retry) submissions are never recorded.
type Attempt struct {
	ID          string
	SessionID   string
	LearnerID   string
	WordID      string
	WordText    string
	TypedText   string
	Correct     bool
	LatencyMs   int
	ReplayCount int
	EditCount   int
	PromptMode  PromptMode
	CreatedAt   time.Time
}

// RatingDelta is the rating movement metadata stored alongside an attempt.
type RatingDelta struct {
	Delta             int
	LearnerRatingPost int
	WordRatingPost    int
}

// Session is the persisted session row.
type Session struct {
	ID                string
	LearnerID         string
	StartTier         int
	CurrentTier       int
	WordIDs           []string
	CurrentIndex      int
	MiniSetsCompleted int
	StartedAt         time.Time
	EndedAt           *time.Time
}

// SessionStats is what EndSession records.
type SessionStats struct {
	AttemptsTotal     int
	CorrectTotal      int
	MiniSetsCompleted int
	FinalTier         int
	FinalRating       int
}

// MiniSetSummary is the per-mini-set outcome row.
type MiniSetSummary struct {
	SetNumber       int
	WordIDs         []string
	CorrectCount    int
	ConfidenceDelta int
	Action          string
}

// MasteryRecord is the saturating per-(learner, word) counter plus the
// recency data the selector's soft-bias needs.
type MasteryRecord struct {
	LearnerID     string
	WordID        string
	Score         int
	LastCorrect   bool
	LastAttemptAt time.Time
}
