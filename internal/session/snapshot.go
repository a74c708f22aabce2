package session

import (
	"github.com/hypandra/spellbetternow/internal/store"
)

// Snapshot is the full serializable state of one session. It is treated as
// an immutable value: reducers return a fresh snapshot and never mutate the
// one they were given, so GetState and LoadState are plain deep copies.
type Snapshot struct {
	SessionID          string            `json:"session_id"`
	LearnerID          string            `json:"learner_id"`
	Tier               int               `json:"tier"`
	Rating             int               `json:"rating"`
	TotalAttempts      int               `json:"total_attempts"`
	SuccessfulAttempts int               `json:"successful_attempts"`
	WordIDs            []string          `json:"word_ids"`
	WordIndex          int               `json:"word_index"`
	State              State             `json:"state"`
	Attempts           []store.Attempt   `json:"attempts"`
	SetResults         map[string]bool   `json:"set_results"`
	MiniSetsCompleted  int               `json:"mini_sets_completed"`
	Confidence         int               `json:"confidence"`
	PendingMisses      map[string]string `json:"pending_misses,omitempty"`
	LastSetMissed      []string          `json:"last_set_missed,omitempty"`
	Assessment         bool              `json:"assessment"`
	MaxTier            int               `json:"max_tier"`
	PromptMode         store.PromptMode  `json:"prompt_mode"`
}

// Clone returns a deep copy; slices and maps are never shared.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.WordIDs = append([]string(nil), s.WordIDs...)
	out.Attempts = append([]store.Attempt(nil), s.Attempts...)
	out.LastSetMissed = append([]string(nil), s.LastSetMissed...)
	if s.SetResults != nil {
		out.SetResults = make(map[string]bool, len(s.SetResults))
		for k, v := range s.SetResults {
			out.SetResults[k] = v
		}
	}
	if s.PendingMisses != nil {
		out.PendingMisses = make(map[string]string, len(s.PendingMisses))
		for k, v := range s.PendingMisses {
			out.PendingMisses[k] = v
		}
	}
	return out
}

// machine projects the snapshot's lifecycle fields into a Machine value.
func (s Snapshot) machine() Machine {
	return Machine{State: s.State, WordIndex: s.WordIndex}
}

// currentWordID returns the id at the active index, or "" past the end.
func (s Snapshot) currentWordID() string {
	if s.WordIndex < 0 || s.WordIndex >= len(s.WordIDs) {
		return ""
	}
	return s.WordIDs[s.WordIndex]
}

// setCorrectCount counts the words of the active mini-set whose AND-combined
// result is still correct.
func (s Snapshot) setCorrectCount() int {
	n := 0
	for _, correct := range s.SetResults {
		if correct {
			n++
		}
	}
	return n
}

// setMissedIDs returns the active set's missed word ids in set order.
func (s Snapshot) setMissedIDs() []string {
	var missed []string
	for _, id := range s.WordIDs {
		if correct, seen := s.SetResults[id]; seen && !correct {
			missed = append(missed, id)
		}
	}
	return missed
}
