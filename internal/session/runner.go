package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antzucaro/matchr"

	"github.com/hypandra/spellbetternow/internal/lessons"
	"github.com/hypandra/spellbetternow/internal/leveling"
	"github.com/hypandra/spellbetternow/internal/rating"
	"github.com/hypandra/spellbetternow/internal/store"
	"github.com/hypandra/spellbetternow/internal/worddiff"
)

// coldStartAttemptCap is the session attempt count at or below which the
// early-session accuracy/latency policy decides the tier instead of the
// percentile recomputation.
const coldStartAttemptCap = 10

// WordPicker selects practice words. *selector.Selector satisfies it.
type WordPicker interface {
	SelectMiniSet(ctx context.Context, targetRating int, learnerID string, excludeWordIDs []string) ([]store.Word, error)
	SelectChallengeWords(ctx context.Context, targetRating int, learnerID string, excludeWordIDs []string) ([]store.Word, error)
}

// Stores bundles the persistence collaborators the Runner needs.
type Stores struct {
	Words    store.WordStore
	Learners store.LearnerStore
	Attempts store.AttemptStore
	Sessions store.SessionStore
	Mastery  store.MasteryStore
}

// NextAction is the caller's choice at a mini-set break.
type NextAction string

const (
	NextContinue       NextAction = "CONTINUE"
	NextChallengeJump  NextAction = "CHALLENGE_JUMP"
	NextPracticeMissed NextAction = "PRACTICE_MISSED"
)

// StartOptions tune session start.
type StartOptions struct {
	// Rating overrides the tier-derived default starting rating.
	Rating *int
	// PresetWordIDs overrides word selection for the first mini-set.
	PresetWordIDs []string
	// Assessment runs the session without applying tier changes to the
	// learner record; Finish reports the computed tier as a suggestion.
	Assessment bool
	// MaxTier caps every tier movement; zero means the global maximum.
	MaxTier    int
	PromptMode store.PromptMode
}

// MissedView is one missed word on the break screen, showing the text of
// the learner's most recent incorrect scored attempt at it.
type MissedView struct {
	WordID      string
	WordText    string
	AttemptText string
}

// MiniSetReport summarizes a completed mini-set for the break screen.
type MiniSetReport struct {
	SetNumber    int
	CorrectCount int
	CorrectWords []store.Word
	Missed       []MissedView
	Lesson       *lessons.Lesson
}

// SubmitResult is the outcome of one submission.
type SubmitResult struct {
	Word    store.Word
	Correct bool
	// Diff explains an incorrect attempt; nil when correct.
	Diff *worddiff.Result
	// Scored is false for diagnostic retries, which leave every piece of
	// state untouched.
	Scored       bool
	Transitioned bool
	RatingDelta  int
	// Report is set when this submission closed the mini-set.
	Report *MiniSetReport
}

// NextSet is the outcome of closing a break.
type NextSet struct {
	Words        []store.Word
	Tier         int
	LadderShift  int
	Transitioned bool
}

// FinalReport is the outcome of Finish.
type FinalReport struct {
	Stats store.SessionStats
	// SuggestedTier is the recomputed tier. In assessment mode it has not
	// been applied to the learner record.
	SuggestedTier int
	MaxTier       int
	Assessment    bool
	Transitioned  bool
}

// Runner orchestrates one session. It assumes exclusive ownership: callers
// must serialize operations on the same session externally.
type Runner struct {
	stores Stores
	picker WordPicker
	log    *slog.Logger
	now    func() time.Time

	snap      Snapshot
	wordCache map[string]store.Word
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// WithClock sets the clock, for deterministic tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner over the given collaborators.
func NewRunner(stores Stores, picker WordPicker, opts ...RunnerOption) *Runner {
	r := &Runner{
		stores:    stores,
		picker:    picker,
		log:       slog.Default(),
		now:       time.Now,
		wordCache: make(map[string]store.Word),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start opens a new session for the learner at the given tier: resolves the
// starting rating, picks the first mini-set, persists the session row, and
// moves the machine into the first set. Fails when no full set of words is
// available.
func (r *Runner) Start(ctx context.Context, learnerID string, tier int, opts StartOptions) error {
	maxTier := opts.MaxTier
	if maxTier <= 0 {
		maxTier = rating.MaxTier
	}
	tier = rating.ClampTier(tier, maxTier)

	startRating := rating.DefaultRatingForTier(tier)
	if opts.Rating != nil {
		startRating = *opts.Rating
	}

	total, successful := 0, 0
	learner, err := r.stores.Learners.GetLearner(ctx, learnerID)
	if err == nil {
		total = learner.TotalAttempts
		successful = learner.SuccessfulAttempts
	} else if !errors.Is(err, store.ErrLearnerNotFound) {
		return fmt.Errorf("load learner: %w", err)
	}

	var words []store.Word
	if len(opts.PresetWordIDs) > 0 {
		words, err = r.stores.Words.GetWordsByIDs(ctx, opts.PresetWordIDs)
	} else {
		words, err = r.picker.SelectMiniSet(ctx, startRating, learnerID, nil)
	}
	if err != nil {
		return fmt.Errorf("pick starting set: %w", err)
	}
	if len(words) < SetSize {
		return fmt.Errorf("pick starting set: need %d words, have %d", SetSize, len(words))
	}
	words = words[:SetSize]

	wordIDs := make([]string, len(words))
	for i, w := range words {
		wordIDs[i] = w.ID
	}

	sess, err := r.stores.Sessions.CreateSession(ctx, learnerID, tier, wordIDs)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	promptMode := opts.PromptMode
	if promptMode == "" {
		promptMode = store.PromptAudio
	}

	snap, ok := applyStart(startParams{
		SessionID:  sess.ID,
		LearnerID:  learnerID,
		Tier:       tier,
		Rating:     startRating,
		Total:      total,
		Successful: successful,
		WordIDs:    wordIDs,
		Assessment: opts.Assessment,
		MaxTier:    maxTier,
		PromptMode: promptMode,
	})
	if !ok {
		return fmt.Errorf("start session: machine rejected start")
	}
	r.snap = snap
	r.cacheWords(words)

	r.log.Info("session started",
		"session_id", sess.ID,
		"learner_id", learnerID,
		"tier", tier,
		"rating", startRating,
		"assessment", opts.Assessment,
	)
	return nil
}

// SubmitWord scores one submission. With advance=false the attempt is
// diagnostic only: correctness and diff are computed for display, and no
// rating, mastery, persistence, or machine movement happens. An incorrect
// diagnostic is still remembered on the snapshot so the word counts as
// missed on first-attempt accuracy even if a later scored attempt lands
// correct. With advance=true the attempt is scored and the set advances;
// closing the set attaches a MiniSetReport.
func (r *Runner) SubmitWord(ctx context.Context, wordID, attemptText string, latencyMs, replayCount int, editCount *int, advance bool) (*SubmitResult, error) {
	word, err := r.lookupWord(ctx, wordID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(attemptText)
	correct := strings.EqualFold(trimmed, strings.TrimSpace(word.Text))
	res := &SubmitResult{Word: *word, Correct: correct}
	if !correct {
		d := worddiff.Diff(word.Text, trimmed)
		res.Diff = &d
	}

	if !advance {
		if !correct {
			if snap, ok := applyDiagnosticMiss(r.snap, word.ID, attemptText); ok {
				r.snap = snap
			}
		}
		return res, nil
	}

	action := ActionSubmitWord
	if r.snap.WordIndex == len(r.snap.WordIDs)-1 {
		action = ActionReachBreak
	}
	if _, ok := r.snap.machine().Apply(action); !ok {
		r.log.Warn("submission ignored outside mini-set",
			"session_id", r.snap.SessionID, "state", r.snap.State)
		return res, nil
	}

	edits := 0
	if editCount != nil {
		edits = *editCount
	} else if !correct {
		edits = matchr.DamerauLevenshtein(strings.ToLower(word.Text), strings.ToLower(trimmed))
	}

	upd := rating.UpdateRatings(r.snap.Rating, word.Rating, correct)
	attempt := store.Attempt{
		SessionID:   r.snap.SessionID,
		LearnerID:   r.snap.LearnerID,
		WordID:      word.ID,
		WordText:    word.Text,
		TypedText:   attemptText,
		Correct:     correct,
		LatencyMs:   latencyMs,
		ReplayCount: replayCount,
		EditCount:   edits,
		PromptMode:  r.snap.PromptMode,
		CreatedAt:   r.now(),
	}

	if err := r.stores.Words.UpdateWordRating(ctx, word.ID, upd.WordRating); err != nil {
		return nil, fmt.Errorf("update word rating: %w", err)
	}
	total := r.snap.TotalAttempts + 1
	successful := r.snap.SuccessfulAttempts
	if correct {
		successful++
	}
	if err := r.stores.Learners.UpdateLearnerRating(ctx, r.snap.LearnerID, upd.LearnerRating, total, successful); err != nil {
		return nil, fmt.Errorf("update learner rating: %w", err)
	}
	attemptID, err := r.stores.Attempts.RecordAttempt(ctx, r.snap.SessionID, r.snap.LearnerID, attempt, store.RatingDelta{
		Delta:             upd.Delta,
		LearnerRatingPost: upd.LearnerRating,
		WordRatingPost:    upd.WordRating,
	})
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	attempt.ID = attemptID
	if err := r.stores.Mastery.BumpMastery(ctx, r.snap.LearnerID, word.ID, correct); err != nil {
		return nil, fmt.Errorf("bump mastery: %w", err)
	}

	snap, transitioned := applySubmit(r.snap, attempt, upd.LearnerRating)
	r.snap = snap
	res.Scored = true
	res.Transitioned = transitioned
	res.RatingDelta = upd.Delta

	cached := *word
	cached.Rating = upd.WordRating
	r.wordCache[word.ID] = cached

	if err := r.stores.Sessions.UpdateSessionProgress(ctx, r.snap.SessionID, r.snap.WordIDs, r.snap.WordIndex, nil); err != nil {
		return nil, fmt.Errorf("checkpoint session: %w", err)
	}

	r.log.Debug("word scored",
		"session_id", r.snap.SessionID,
		"word_id", word.ID,
		"correct", correct,
		"delta", upd.Delta,
		"rating", upd.LearnerRating,
	)

	if r.snap.State == StateBreak {
		res.Report = r.buildReport()
	}
	return res, nil
}

// CompleteMiniSet closes the break: folds the set outcome into the
// confidence ladder, recomputes and (outside practice-missed and assessment
// mode) persists the tier, picks the next set per the chosen action, and
// re-enters the mini-set state.
func (r *Runner) CompleteMiniSet(ctx context.Context, action NextAction) (*NextSet, error) {
	if _, ok := r.snap.machine().Apply(ActionContinue); !ok {
		return &NextSet{Transitioned: false}, nil
	}

	correctCount := r.snap.setCorrectCount()
	missed := r.snap.setMissedIDs()
	delta := leveling.ConfidenceDelta(correctCount)
	newConfidence, ladderShift := leveling.ApplyConfidence(r.snap.Confidence, delta)

	newTier := r.snap.Tier
	var tierPtr *int
	if action != NextPracticeMissed {
		t, err := r.recomputeTier(ctx)
		if err != nil {
			return nil, err
		}
		newTier = t
		tierPtr = &newTier
		if !r.snap.Assessment {
			if err := r.stores.Learners.UpdateLearnerTier(ctx, r.snap.LearnerID, newTier); err != nil {
				return nil, fmt.Errorf("update learner tier: %w", err)
			}
		}
	}

	exclude, err := r.stores.Attempts.ListDistinctWordIDsForSession(ctx, r.snap.SessionID)
	if err != nil {
		return nil, fmt.Errorf("list session words: %w", err)
	}

	words, err := r.nextWords(ctx, action, missed, exclude)
	if err != nil {
		return nil, err
	}

	summary := store.MiniSetSummary{
		SetNumber:       r.snap.MiniSetsCompleted + 1,
		WordIDs:         append([]string(nil), r.snap.WordIDs...),
		CorrectCount:    correctCount,
		ConfidenceDelta: delta,
		Action:          string(action),
	}
	if err := r.stores.Attempts.RecordMiniSetSummary(ctx, r.snap.SessionID, summary); err != nil {
		return nil, fmt.Errorf("record mini-set summary: %w", err)
	}
	if err := r.stores.Sessions.IncrementMiniSetsCompleted(ctx, r.snap.SessionID); err != nil {
		return nil, fmt.Errorf("count mini-set: %w", err)
	}

	wordIDs := make([]string, len(words))
	for i, w := range words {
		wordIDs[i] = w.ID
	}
	snap, transitioned := applyCompleteMiniSet(r.snap, wordIDs, newTier, newConfidence, missed)
	r.snap = snap
	r.cacheWords(words)

	if err := r.stores.Sessions.UpdateSessionProgress(ctx, r.snap.SessionID, wordIDs, 0, tierPtr); err != nil {
		return nil, fmt.Errorf("checkpoint session: %w", err)
	}

	r.log.Info("mini-set completed",
		"session_id", r.snap.SessionID,
		"set_number", summary.SetNumber,
		"correct", correctCount,
		"action", string(action),
		"tier", newTier,
		"ladder_shift", ladderShift,
	)
	return &NextSet{
		Words:        words,
		Tier:         newTier,
		LadderShift:  ladderShift,
		Transitioned: transitioned,
	}, nil
}

// Finish ends the session: totals the session's scored attempts, recomputes
// the tier one last time, persists the session end, and moves the machine
// to its terminal state.
func (r *Runner) Finish(ctx context.Context) (*FinalReport, error) {
	if _, ok := r.snap.machine().Apply(ActionFinish); !ok {
		return &FinalReport{Transitioned: false}, nil
	}

	attemptsTotal := len(r.snap.Attempts)
	correctTotal := 0
	for _, a := range r.snap.Attempts {
		if a.Correct {
			correctTotal++
		}
	}

	finalTier, err := r.recomputeTier(ctx)
	if err != nil {
		return nil, err
	}
	if !r.snap.Assessment {
		if err := r.stores.Learners.UpdateLearnerTier(ctx, r.snap.LearnerID, finalTier); err != nil {
			return nil, fmt.Errorf("update learner tier: %w", err)
		}
	}

	stats := store.SessionStats{
		AttemptsTotal:     attemptsTotal,
		CorrectTotal:      correctTotal,
		MiniSetsCompleted: r.snap.MiniSetsCompleted,
		FinalTier:         finalTier,
		FinalRating:       r.snap.Rating,
	}
	if err := r.stores.Sessions.EndSession(ctx, r.snap.SessionID, stats); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}

	snap, transitioned := applyFinish(r.snap, finalTier)
	r.snap = snap

	r.log.Info("session finished",
		"session_id", r.snap.SessionID,
		"attempts", attemptsTotal,
		"correct", correctTotal,
		"final_tier", finalTier,
		"assessment", r.snap.Assessment,
	)
	return &FinalReport{
		Stats:         stats,
		SuggestedTier: finalTier,
		MaxTier:       r.snap.MaxTier,
		Assessment:    r.snap.Assessment,
		Transitioned:  transitioned,
	}, nil
}

// GetState returns a deep copy of the session snapshot.
func (r *Runner) GetState() Snapshot {
	return r.snap.Clone()
}

// LoadState replaces the Runner's snapshot, resynchronizing the machine and
// the word cache, so a suspended session can continue in a new process.
func (r *Runner) LoadState(ctx context.Context, snap Snapshot) error {
	words, err := r.stores.Words.GetWordsByIDs(ctx, snap.WordIDs)
	if err != nil {
		return fmt.Errorf("load set words: %w", err)
	}
	r.snap = snap.Clone()
	r.wordCache = make(map[string]store.Word)
	r.cacheWords(words)
	return nil
}

// CurrentWord returns the word at the active index, or false between sets.
func (r *Runner) CurrentWord() (store.Word, bool) {
	id := r.snap.currentWordID()
	if id == "" || r.snap.State != StateInMiniSet {
		return store.Word{}, false
	}
	w, ok := r.wordCache[id]
	return w, ok
}

// recomputeTier derives the authoritative tier. Early in a session the
// percentile rank is noisy, so up to ten attempts the accuracy/latency
// policy decides instead.
func (r *Runner) recomputeTier(ctx context.Context) (int, error) {
	if len(r.snap.Attempts) > 0 && len(r.snap.Attempts) <= coldStartAttemptCap {
		samples := make([]leveling.AttemptSample, len(r.snap.Attempts))
		for i, a := range r.snap.Attempts {
			samples[i] = leveling.AttemptSample{Correct: a.Correct, LatencyMs: a.LatencyMs}
		}
		return leveling.ColdStartAdjust(samples, r.snap.Tier, r.snap.MaxTier), nil
	}

	percentile, err := r.stores.Learners.GetLearnerPercentileRank(ctx, r.snap.LearnerID)
	if err != nil {
		return 0, fmt.Errorf("percentile rank: %w", err)
	}
	return rating.ClampTier(rating.TierForPercentile(percentile), r.snap.MaxTier), nil
}

// nextWords resolves the next mini-set for the chosen break action.
func (r *Runner) nextWords(ctx context.Context, action NextAction, missed, exclude []string) ([]store.Word, error) {
	switch action {
	case NextChallengeJump:
		words, err := r.picker.SelectChallengeWords(ctx, r.snap.Rating, r.snap.LearnerID, exclude)
		if err != nil {
			return nil, fmt.Errorf("select challenge set: %w", err)
		}
		if len(words) >= SetSize {
			return words[:SetSize], nil
		}
		// Nothing harder to offer; fall through to a normal set.
	case NextPracticeMissed:
		if len(missed) > 0 {
			return r.missedCycle(ctx, missed)
		}
		// A clean set has nothing to re-practice; serve a normal one.
	}

	words, err := r.picker.SelectMiniSet(ctx, r.snap.Rating, r.snap.LearnerID, exclude)
	if err != nil {
		return nil, fmt.Errorf("select next set: %w", err)
	}
	return words[:SetSize], nil
}

// missedCycle builds a full set by cycling the missed word ids round-robin.
func (r *Runner) missedCycle(ctx context.Context, missed []string) ([]store.Word, error) {
	pool, err := r.stores.Words.GetWordsByIDs(ctx, missed)
	if err != nil {
		return nil, fmt.Errorf("load missed words: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("load missed words: %w", store.ErrWordNotFound)
	}
	byID := make(map[string]store.Word, len(pool))
	for _, w := range pool {
		byID[w.ID] = w
	}

	out := make([]store.Word, 0, SetSize)
	for i := 0; len(out) < SetSize; i++ {
		if w, ok := byID[missed[i%len(missed)]]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

// buildReport assembles the break-screen summary from the closed set.
func (r *Runner) buildReport() *MiniSetReport {
	report := &MiniSetReport{
		SetNumber:    r.snap.MiniSetsCompleted + 1,
		CorrectCount: r.snap.setCorrectCount(),
	}

	var missedInput []lessons.MissedWord
	for _, id := range r.snap.WordIDs {
		correct, seen := r.snap.SetResults[id]
		if !seen {
			continue
		}
		w, cached := r.wordCache[id]
		if correct {
			if cached {
				report.CorrectWords = append(report.CorrectWords, w)
			}
			continue
		}
		view := MissedView{WordID: id, WordText: w.Text, AttemptText: r.lastIncorrectAttempt(id)}
		report.Missed = append(report.Missed, view)
		missedInput = append(missedInput, lessons.MissedWord{Word: w.Text, Attempt: view.AttemptText})
	}

	report.Lesson = lessons.Generate(missedInput)
	return report
}

// lastIncorrectAttempt returns the typed text of the most recent incorrect
// scored attempt at the word, falling back to the remembered diagnostic miss
// when every scored attempt was correct.
func (r *Runner) lastIncorrectAttempt(wordID string) string {
	for i := len(r.snap.Attempts) - 1; i >= 0; i-- {
		a := r.snap.Attempts[i]
		if a.WordID == wordID && !a.Correct {
			return a.TypedText
		}
	}
	return r.snap.PendingMisses[wordID]
}

func (r *Runner) lookupWord(ctx context.Context, wordID string) (*store.Word, error) {
	if w, ok := r.wordCache[wordID]; ok {
		return &w, nil
	}
	w, err := r.stores.Words.GetWord(ctx, wordID)
	if err != nil {
		return nil, fmt.Errorf("look up word %s: %w", wordID, err)
	}
	r.wordCache[w.ID] = *w
	return w, nil
}

func (r *Runner) cacheWords(words []store.Word) {
	for _, w := range words {
		r.wordCache[w.ID] = w
	}
}
