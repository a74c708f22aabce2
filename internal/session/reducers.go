package session

import (
	"github.com/hypandra/spellbetternow/internal/store"
)

// The reducers below are the only way snapshot state changes. Each takes a
// snapshot value, returns a new one, and reports whether the underlying
// state machine accepted the action. A rejected action returns the input
// snapshot unchanged.

// startParams seeds a brand new snapshot.
type startParams struct {
	SessionID  string
	LearnerID  string
	Tier       int
	Rating     int
	Total      int
	Successful int
	WordIDs    []string
	Assessment bool
	MaxTier    int
	PromptMode store.PromptMode
}

func applyStart(p startParams) (Snapshot, bool) {
	m, ok := NewMachine().Apply(ActionStart)
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		SessionID:          p.SessionID,
		LearnerID:          p.LearnerID,
		Tier:               p.Tier,
		Rating:             p.Rating,
		TotalAttempts:      p.Total,
		SuccessfulAttempts: p.Successful,
		WordIDs:            append([]string(nil), p.WordIDs...),
		WordIndex:          m.WordIndex,
		State:              m.State,
		SetResults:         make(map[string]bool),
		Assessment:         p.Assessment,
		MaxTier:            p.MaxTier,
		PromptMode:         p.PromptMode,
	}, true
}

// applyDiagnosticMiss records an incorrect non-advancing retry so the word
// still counts as missed on first-attempt accuracy when a later scored
// submission lands correct. Only the first typed text per word is kept. The
// machine does not move.
func applyDiagnosticMiss(snap Snapshot, wordID, attemptText string) (Snapshot, bool) {
	if snap.State != StateInMiniSet {
		return snap, false
	}
	out := snap.Clone()
	if out.PendingMisses == nil {
		out.PendingMisses = make(map[string]string)
	}
	if _, seen := out.PendingMisses[wordID]; !seen {
		out.PendingMisses[wordID] = attemptText
	}
	return out, true
}

// applySubmit folds one scored attempt into the snapshot: the attempt log,
// the lifetime counters, the learner rating, and the AND-combined per-word
// set result. A pending diagnostic miss forces the word's set result to
// missed. The machine advances by SUBMIT_WORD, or REACH_BREAK when this
// was the last word of the set.
func applySubmit(snap Snapshot, attempt store.Attempt, newRating int) (Snapshot, bool) {
	action := ActionSubmitWord
	if snap.WordIndex == len(snap.WordIDs)-1 {
		action = ActionReachBreak
	}
	m, ok := snap.machine().Apply(action)
	if !ok {
		return snap, false
	}
	if action == ActionReachBreak {
		m.WordIndex = snap.WordIndex + 1
	}

	out := snap.Clone()
	out.State = m.State
	out.WordIndex = m.WordIndex
	out.Rating = newRating
	out.TotalAttempts++
	if attempt.Correct {
		out.SuccessfulAttempts++
	}
	out.Attempts = append(out.Attempts, attempt)

	result := attempt.Correct
	if _, missed := out.PendingMisses[attempt.WordID]; missed {
		result = false
	}
	if prior, seen := out.SetResults[attempt.WordID]; seen {
		out.SetResults[attempt.WordID] = prior && result
	} else {
		out.SetResults[attempt.WordID] = result
	}
	return out, true
}

// applyCompleteMiniSet closes the active set and opens the next one.
func applyCompleteMiniSet(snap Snapshot, nextWordIDs []string, newTier, newConfidence int, missed []string) (Snapshot, bool) {
	m, ok := snap.machine().Apply(ActionContinue)
	if !ok {
		return snap, false
	}

	out := snap.Clone()
	out.State = m.State
	out.WordIndex = m.WordIndex
	out.Tier = newTier
	out.Confidence = newConfidence
	out.MiniSetsCompleted++
	out.WordIDs = append([]string(nil), nextWordIDs...)
	out.SetResults = make(map[string]bool)
	out.PendingMisses = nil
	out.LastSetMissed = append([]string(nil), missed...)
	return out, true
}

func applyFinish(snap Snapshot, finalTier int) (Snapshot, bool) {
	m, ok := snap.machine().Apply(ActionFinish)
	if !ok {
		return snap, false
	}
	out := snap.Clone()
	out.State = m.State
	out.Tier = finalTier
	return out, true
}
