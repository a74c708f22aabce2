package session

import (
	"context"
	"fmt"

	"github.com/hypandra/spellbetternow/internal/leveling"
	"github.com/hypandra/spellbetternow/internal/rating"
	"github.com/hypandra/spellbetternow/internal/store"
)

// Resume rebuilds a Runner for a previously persisted session from its row
// and attempt history. A break is pending when the attempt count is a
// positive multiple of the set size that the recorded mini-set completions
// do not yet account for; the current set's results are rebuilt from the
// tail of the attempt log.
func Resume(ctx context.Context, stores Stores, picker WordPicker, sessionID string, opts ...RunnerOption) (*Runner, error) {
	r := NewRunner(stores, picker, opts...)

	sess, err := stores.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.EndedAt != nil {
		return nil, fmt.Errorf("load session %s: already complete", sessionID)
	}

	attempts, err := stores.Attempts.ListAttemptsForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	learner, err := stores.Learners.GetLearner(ctx, sess.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("load learner: %w", err)
	}

	total := len(attempts)
	breakPending := total > 0 && total%SetSize == 0 && total != sess.MiniSetsCompleted*SetSize

	state := StateInMiniSet
	inSet := total - sess.MiniSetsCompleted*SetSize
	if breakPending {
		state = StateBreak
		inSet = SetSize
	}
	if inSet < 0 {
		inSet = 0
	}

	// The current set's attempts are the tail past the completed sets.
	tailStart := sess.MiniSetsCompleted * SetSize
	if tailStart > total {
		tailStart = total
	}
	setResults := make(map[string]bool)
	for _, a := range attempts[tailStart:] {
		if prior, seen := setResults[a.WordID]; seen {
			setResults[a.WordID] = prior && a.Correct
		} else {
			setResults[a.WordID] = a.Correct
		}
	}

	promptMode := store.PromptAudio
	if total > 0 {
		promptMode = attempts[total-1].PromptMode
	}

	// The confidence ladder is replayed from the recorded set summaries so a
	// resumed session sits exactly where the suspended one left off.
	summaries, err := stores.Attempts.ListMiniSetSummariesForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load mini-set summaries: %w", err)
	}
	confidence := 0
	for _, s := range summaries {
		confidence, _ = leveling.ApplyConfidence(confidence, s.ConfidenceDelta)
	}

	snap := Snapshot{
		SessionID:          sess.ID,
		LearnerID:          sess.LearnerID,
		Tier:               sess.CurrentTier,
		Rating:             learner.Rating,
		TotalAttempts:      learner.TotalAttempts,
		SuccessfulAttempts: learner.SuccessfulAttempts,
		WordIDs:            append([]string(nil), sess.WordIDs...),
		WordIndex:          inSet,
		State:              state,
		Attempts:           attempts,
		SetResults:         setResults,
		MiniSetsCompleted:  sess.MiniSetsCompleted,
		Confidence:         confidence,
		MaxTier:            rating.MaxTier,
		PromptMode:         promptMode,
	}
	if err := r.LoadState(ctx, snap); err != nil {
		return nil, err
	}
	return r, nil
}
