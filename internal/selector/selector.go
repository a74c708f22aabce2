// Package selector composes 5-word practice sets from the rating-banded
// word bank, blended with the learner's curated lists, subject to recency
// and mastery exclusion rules.
package selector

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hypandra/spellbetternow/internal/store"
)

// ErrNoCandidates is returned when the combined bank and custom pools
// cannot produce a full mini-set even after every fallback.
var ErrNoCandidates = errors.New("not enough words to build a practice set")

// MiniSetSize is the number of words in one practice set.
const MiniSetSize = 5

// bandTolerances is the expanding rating window used by the band search.
var bandTolerances = []int{100, 200, 400, 800}

// ChallengeOffset is added to the target rating for a challenge jump.
const ChallengeOffset = 150

// maxChallengeRating is the ceiling above which a challenge jump has no
// harder words to offer.
const maxChallengeRating = 2000

// Config tunes the recency and mastery exclusion rules.
type Config struct {
	// RecencyWindow is how many of the learner's most recent attempts the
	// recency filter looks at.
	RecencyWindow int
	// MasteryBiasThreshold is the mastery score at or above which a
	// recently seen word is deprioritized.
	MasteryBiasThreshold int
	// MasteryRecencyDays is the day window after which a high-mastery word
	// re-enters the preferred pool.
	MasteryRecencyDays int
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		RecencyWindow:        20,
		MasteryBiasThreshold: 2,
		MasteryRecencyDays:   7,
	}
}

// Selector picks practice words. It is stateless apart from its random
// source; callers may share one across sessions.
type Selector struct {
	words    store.WordStore
	attempts store.AttemptStore
	mastery  store.MasteryStore
	lists    store.CustomListStore
	cfg      Config
	rng      *rand.Rand
	now      func() time.Time
}

// Option configures a Selector.
type Option func(*Selector)

// WithConfig overrides the default tuning.
func WithConfig(cfg Config) Option {
	return func(s *Selector) { s.cfg = cfg }
}

// WithRand sets the random source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// WithNow sets the clock, for deterministic tests.
func WithNow(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// New creates a Selector over the given stores.
func New(words store.WordStore, attempts store.AttemptStore, mastery store.MasteryStore, lists store.CustomListStore, opts ...Option) *Selector {
	s := &Selector{
		words:    words,
		attempts: attempts,
		mastery:  mastery,
		lists:    lists,
		cfg:      DefaultConfig(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SelectMiniSet returns exactly MiniSetSize distinct words for the learner,
// centered on targetRating and excluding excludeWordIDs. It fails only when
// the combined bank and custom pools cannot produce a full set.
func (s *Selector) SelectMiniSet(ctx context.Context, targetRating int, learnerID string, excludeWordIDs []string) ([]store.Word, error) {
	bank, err := s.bankCandidates(ctx, targetRating, learnerID, excludeWordIDs)
	if err != nil {
		return nil, err
	}

	custom, err := s.lists.GetEnabledListWordsForLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load custom lists: %w", err)
	}
	custom = dropExcluded(custom, excludeWordIDs)
	s.shuffle(custom)

	result := blend(custom, bank)
	if len(result) < MiniSetSize {
		return nil, fmt.Errorf("select mini-set: %w: have %d, need %d", ErrNoCandidates, len(result), MiniSetSize)
	}
	return result[:MiniSetSize], nil
}

// SelectChallengeWords is the challenge-jump variant: the same band search
// centered ChallengeOffset above the target rating. Returns an empty set
// when the learner is already at the maximum practical rating.
func (s *Selector) SelectChallengeWords(ctx context.Context, targetRating int, learnerID string, excludeWordIDs []string) ([]store.Word, error) {
	if targetRating >= maxChallengeRating {
		return nil, nil
	}
	center := targetRating + ChallengeOffset
	if center > maxChallengeRating {
		center = maxChallengeRating
	}
	bank, err := s.bankCandidates(ctx, center, learnerID, excludeWordIDs)
	if err != nil {
		return nil, err
	}
	if len(bank) < MiniSetSize {
		return nil, fmt.Errorf("select challenge set: %w: have %d, need %d", ErrNoCandidates, len(bank), MiniSetSize)
	}
	return bank[:MiniSetSize], nil
}

// bankCandidates runs the band search, recency filter, and mastery
// soft-bias, returning ordered candidates (preferred first).
func (s *Selector) bankCandidates(ctx context.Context, targetRating int, learnerID string, excludeWordIDs []string) ([]store.Word, error) {
	pool, err := s.bandSearch(ctx, targetRating, excludeWordIDs)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	filtered, err := s.recencyFilter(ctx, learnerID, pool)
	if err != nil {
		return nil, err
	}
	if len(filtered) < MiniSetSize {
		// Too few fresh words; the recency rule yields entirely.
		filtered = pool
	}

	preferred, other, err := s.masteryPartition(ctx, learnerID, filtered)
	if err != nil {
		return nil, err
	}
	s.shuffle(preferred)
	s.shuffle(other)
	ordered := append(preferred, other...)

	// Backfill from the unfiltered pool so a full set is still possible
	// when the filters bit too hard.
	if len(ordered) < MiniSetSize {
		have := idSet(ordered)
		for _, w := range pool {
			if !have[w.ID] {
				ordered = append(ordered, w)
			}
		}
	}
	return ordered, nil
}

// bandSearch widens the rating tolerance until enough candidates appear,
// falling back to the unfiltered pool as a last resort.
func (s *Selector) bandSearch(ctx context.Context, targetRating int, excludeWordIDs []string) ([]store.Word, error) {
	for _, tol := range bandTolerances {
		words, err := s.words.QueryWordsByRatingBand(ctx, targetRating, tol, excludeWordIDs)
		if err != nil {
			return nil, fmt.Errorf("band query ±%d: %w", tol, err)
		}
		if len(words) >= MiniSetSize {
			return words, nil
		}
	}
	words, err := s.words.QueryWordsByRatingBand(ctx, targetRating, -1, excludeWordIDs)
	if err != nil {
		return nil, fmt.Errorf("unfiltered word query: %w", err)
	}
	return words, nil
}

// recencyFilter drops words attempted within the learner's last
// RecencyWindow attempts, unless the latest of those attempts was
// incorrect: a recently missed word should resurface.
func (s *Selector) recencyFilter(ctx context.Context, learnerID string, pool []store.Word) ([]store.Word, error) {
	recent, err := s.attempts.ListRecentAttempts(ctx, learnerID, s.cfg.RecencyWindow)
	if err != nil {
		return nil, fmt.Errorf("list recent attempts: %w", err)
	}

	// Newest first: the first sighting of a word id is its latest attempt.
	lastCorrect := make(map[string]bool)
	for _, a := range recent {
		if _, seen := lastCorrect[a.WordID]; !seen {
			lastCorrect[a.WordID] = a.Correct
		}
	}

	var kept []store.Word
	for _, w := range pool {
		if correct, seen := lastCorrect[w.ID]; seen && correct {
			continue
		}
		kept = append(kept, w)
	}
	return kept, nil
}

// masteryPartition splits candidates into preferred (low mastery, or not
// seen within the recency day window) and other (high mastery, recently
// seen). The same policy applies on every selection path.
func (s *Selector) masteryPartition(ctx context.Context, learnerID string, pool []store.Word) (preferred, other []store.Word, err error) {
	ids := make([]string, len(pool))
	for i, w := range pool {
		ids[i] = w.ID
	}
	records, err := s.mastery.GetMastery(ctx, learnerID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load mastery: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -s.cfg.MasteryRecencyDays)
	for _, w := range pool {
		rec, ok := records[w.ID]
		if !ok || rec.Score < s.cfg.MasteryBiasThreshold || rec.LastAttemptAt.Before(cutoff) {
			preferred = append(preferred, w)
		} else {
			other = append(other, w)
		}
	}
	return preferred, other, nil
}

// blend merges the custom-list pool with the bank candidates. With a full
// custom pool the set is four custom words plus one bank word; with a
// partial pool the bank fills the gap; with none the bank set stands alone.
func blend(custom, bank []store.Word) []store.Word {
	custom = dedupe(custom)
	bank = dedupe(bank)

	if len(custom) == 0 {
		return bank
	}

	if len(custom) >= MiniSetSize {
		result := append([]store.Word{}, custom[:MiniSetSize-1]...)
		have := idSet(result)
		for _, w := range bank {
			if !have[w.ID] {
				return append(result, w)
			}
		}
		// No distinct bank word; the fifth slot backfills from custom.
		return append(result, custom[MiniSetSize-1])
	}

	result := append([]store.Word{}, custom...)
	have := idSet(result)
	for _, w := range bank {
		if len(result) >= MiniSetSize {
			break
		}
		if !have[w.ID] {
			result = append(result, w)
			have[w.ID] = true
		}
	}
	return result
}

func (s *Selector) shuffle(words []store.Word) {
	s.rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

func dropExcluded(words []store.Word, excludeIDs []string) []store.Word {
	if len(excludeIDs) == 0 {
		return words
	}
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var kept []store.Word
	for _, w := range words {
		if !excluded[w.ID] {
			kept = append(kept, w)
		}
	}
	return kept
}

func dedupe(words []store.Word) []store.Word {
	seen := make(map[string]bool, len(words))
	var out []store.Word
	for _, w := range words {
		if !seen[w.ID] {
			seen[w.ID] = true
			out = append(out, w)
		}
	}
	return out
}

func idSet(words []store.Word) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w.ID] = true
	}
	return m
}
