package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hypandra/spellbetternow/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedWords(t *testing.T, s *Store, specs ...store.Word) []string {
	t.Helper()
	ids := make([]string, len(specs))
	for i, w := range specs {
		id, err := s.Words().UpsertWord(context.Background(), w)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk string
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, "1", fk)
}

func TestWordRepo_BandQueryAndRating(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ids := seedWords(t, s,
		store.Word{Text: "their", Rating: 1400, Tier: 3},
		store.Word{Text: "friend", Rating: 1500, Tier: 4},
		store.Word{Text: "necessary", Rating: 1800, Tier: 6},
	)

	words, err := s.Words().QueryWordsByRatingBand(ctx, 1450, 100, nil)
	require.NoError(t, err)
	require.Len(t, words, 2)

	words, err = s.Words().QueryWordsByRatingBand(ctx, 1450, 100, []string{ids[0]})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "friend", words[0].Text)

	all, err := s.Words().QueryWordsByRatingBand(ctx, 0, -1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.Words().UpdateWordRating(ctx, ids[1], 1484))
	w, err := s.Words().GetWord(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 1484, w.Rating)

	_, err = s.Words().GetWord(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrWordNotFound)
}

func TestWordRepo_GetWordsByIDsPreservesOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ids := seedWords(t, s,
		store.Word{Text: "alpha", Rating: 1500},
		store.Word{Text: "bravo", Rating: 1500},
		store.Word{Text: "carol", Rating: 1500},
	)

	words, err := s.Words().GetWordsByIDs(ctx, []string{ids[2], ids[0]})
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "carol", words[0].Text)
	assert.Equal(t, "alpha", words[1].Text)
}

func TestWordRepo_UpsertKeepsLiveRating(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.Words().UpsertWord(ctx, store.Word{Text: "their", Rating: 1500, Tier: 3})
	require.NoError(t, err)
	require.NoError(t, s.Words().UpdateWordRating(ctx, id, 1532))

	_, err = s.Words().UpsertWord(ctx, store.Word{Text: "their", Rating: 1500, Tier: 4, Hint: "possessive"})
	require.NoError(t, err)

	w, err := s.Words().GetWord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1532, w.Rating, "re-import must not reset a word's earned rating")
	assert.Equal(t, 4, w.Tier)
	assert.Equal(t, "possessive", w.Hint)
}

func TestLearnerRepo_Lifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l, err := s.Learners().CreateLearner(ctx, "Sam", 4)
	require.NoError(t, err)
	assert.Equal(t, 1500, l.Rating)

	require.NoError(t, s.Learners().UpdateLearnerRating(ctx, l.ID, 1516, 1, 1))
	require.NoError(t, s.Learners().UpdateLearnerTier(ctx, l.ID, 5))

	got, err := s.Learners().GetLearner(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1516, got.Rating)
	assert.Equal(t, 5, got.Tier)
	assert.Equal(t, 1, got.TotalAttempts)

	byName, err := s.Learners().GetLearnerByName(ctx, "Sam")
	require.NoError(t, err)
	assert.Equal(t, l.ID, byName.ID)

	_, err = s.Learners().GetLearner(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrLearnerNotFound)
}

func TestLearnerRepo_PercentileRank(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	solo, err := s.Learners().CreateLearner(ctx, "Solo", 4)
	require.NoError(t, err)
	p, err := s.Learners().GetLearnerPercentileRank(ctx, solo.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 0.001, "a lone learner sits mid-pack")

	low, err := s.Learners().CreateLearner(ctx, "Low", 1)
	require.NoError(t, err)
	high, err := s.Learners().CreateLearner(ctx, "High", 7)
	require.NoError(t, err)

	pLow, err := s.Learners().GetLearnerPercentileRank(ctx, low.ID)
	require.NoError(t, err)
	pHigh, err := s.Learners().GetLearnerPercentileRank(ctx, high.ID)
	require.NoError(t, err)
	assert.Less(t, pLow, pHigh)
}

func TestAttemptRepo_RecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l, err := s.Learners().CreateLearner(ctx, "Sam", 4)
	require.NoError(t, err)
	ids := seedWords(t, s, store.Word{Text: "their", Rating: 1500})
	sess, err := s.Sessions().CreateSession(ctx, l.ID, 4, ids)
	require.NoError(t, err)

	_, err = s.Attempts().RecordAttempt(ctx, sess.ID, l.ID, store.Attempt{
		WordID:     ids[0],
		WordText:   "their",
		TypedText:  "thier",
		Correct:    false,
		LatencyMs:  2100,
		EditCount:  1,
		PromptMode: store.PromptAudio,
	}, store.RatingDelta{Delta: -16, LearnerRatingPost: 1484, WordRatingPost: 1516})
	require.NoError(t, err)
	_, err = s.Attempts().RecordAttempt(ctx, sess.ID, l.ID, store.Attempt{
		WordID:     ids[0],
		WordText:   "their",
		TypedText:  "their",
		Correct:    true,
		LatencyMs:  1500,
		PromptMode: store.PromptAudio,
	}, store.RatingDelta{Delta: 17, LearnerRatingPost: 1501, WordRatingPost: 1499})
	require.NoError(t, err)

	attempts, err := s.Attempts().ListAttemptsForSession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "thier", attempts[0].TypedText)
	assert.False(t, attempts[0].Correct)
	assert.Equal(t, 1, attempts[0].EditCount)

	recent, err := s.Attempts().ListRecentAttempts(ctx, l.ID, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].Correct, "recent attempts are newest first")

	distinct, err := s.Attempts().ListDistinctWordIDsForSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, distinct)

	total, correct, err := s.Attempts().AccuracyForLearner(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, correct)
}

func TestAttemptRepo_MiniSetSummaries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l, err := s.Learners().CreateLearner(ctx, "Sam", 4)
	require.NoError(t, err)
	ids := seedWords(t, s, store.Word{Text: "their", Rating: 1500})
	sess, err := s.Sessions().CreateSession(ctx, l.ID, 4, ids)
	require.NoError(t, err)

	require.NoError(t, s.Attempts().RecordMiniSetSummary(ctx, sess.ID, store.MiniSetSummary{
		SetNumber: 1, WordIDs: ids, CorrectCount: 5, ConfidenceDelta: 1, Action: "CONTINUE",
	}))
	require.NoError(t, s.Attempts().RecordMiniSetSummary(ctx, sess.ID, store.MiniSetSummary{
		SetNumber: 2, WordIDs: ids, CorrectCount: 2, ConfidenceDelta: -1, Action: "PRACTICE_MISSED",
	}))

	summaries, err := s.Attempts().ListMiniSetSummariesForSession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].SetNumber)
	assert.Equal(t, ids, summaries[0].WordIDs)
	assert.Equal(t, 1, summaries[0].ConfidenceDelta)
	assert.Equal(t, -1, summaries[1].ConfidenceDelta)
	assert.Equal(t, "PRACTICE_MISSED", summaries[1].Action)

	none, err := s.Attempts().ListMiniSetSummariesForSession(ctx, "sess-404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessionRepo_ProgressAndEnd(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l, err := s.Learners().CreateLearner(ctx, "Sam", 4)
	require.NoError(t, err)
	ids := seedWords(t, s,
		store.Word{Text: "their"}, store.Word{Text: "friend"}, store.Word{Text: "night"},
		store.Word{Text: "hope"}, store.Word{Text: "little"},
	)

	sess, err := s.Sessions().CreateSession(ctx, l.ID, 4, ids)
	require.NoError(t, err)

	tier := 5
	require.NoError(t, s.Sessions().UpdateSessionProgress(ctx, sess.ID, ids, 3, &tier))
	require.NoError(t, s.Sessions().IncrementMiniSetsCompleted(ctx, sess.ID))

	got, err := s.Sessions().GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, got.WordIDs)
	assert.Equal(t, 3, got.CurrentIndex)
	assert.Equal(t, 5, got.CurrentTier)
	assert.Equal(t, 1, got.MiniSetsCompleted)
	assert.Nil(t, got.EndedAt)

	open, err := s.Sessions().LatestOpenSession(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, open.ID)

	require.NoError(t, s.Sessions().EndSession(ctx, sess.ID, store.SessionStats{
		AttemptsTotal: 5, CorrectTotal: 4, MiniSetsCompleted: 1, FinalTier: 5, FinalRating: 1540,
	}))
	got, err = s.Sessions().GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.EndedAt)

	_, err = s.Sessions().LatestOpenSession(ctx, l.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestMasteryRepo_SaturatingCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l, err := s.Learners().CreateLearner(ctx, "Sam", 4)
	require.NoError(t, err)
	ids := seedWords(t, s, store.Word{Text: "their"})

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Mastery().BumpMastery(ctx, l.ID, ids[0], true))
	}
	recs, err := s.Mastery().GetMastery(ctx, l.ID, ids)
	require.NoError(t, err)
	require.Contains(t, recs, ids[0])
	assert.Equal(t, 3, recs[ids[0]].Score, "score saturates at 3")
	assert.True(t, recs[ids[0]].LastCorrect)

	require.NoError(t, s.Mastery().BumpMastery(ctx, l.ID, ids[0], false))
	recs, err = s.Mastery().GetMastery(ctx, l.ID, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, recs[ids[0]].Score)
	assert.False(t, recs[ids[0]].LastCorrect)
}

func TestListRepo_EnabledWords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l, err := s.Learners().CreateLearner(ctx, "Sam", 4)
	require.NoError(t, err)
	ids := seedWords(t, s,
		store.Word{Text: "their"}, store.Word{Text: "friend"}, store.Word{Text: "night"},
	)

	listID, err := s.Lists().CreateList(ctx, l.ID, "week 12", ids[:2], true)
	require.NoError(t, err)
	_, err = s.Lists().CreateList(ctx, l.ID, "disabled", ids[2:], false)
	require.NoError(t, err)

	words, err := s.Lists().GetEnabledListWordsForLearner(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, words, 2)

	require.NoError(t, s.Lists().SetListEnabled(ctx, listID, false))
	words, err = s.Lists().GetEnabledListWordsForLearner(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, words)
}
