package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore_EqualRatings(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
}

func TestExpectedScore_StrongerLearner(t *testing.T) {
	e := ExpectedScore(1700, 1300)
	assert.Greater(t, e, 0.9)
	assert.Less(t, e, 1.0)
}

func TestUpdateRatings_EvenMatchCorrect(t *testing.T) {
	u := UpdateRatings(1500, 1500, true)
	assert.Equal(t, 16, u.Delta)
	assert.Equal(t, 1516, u.LearnerRating)
	assert.Equal(t, 1484, u.WordRating)
}

func TestUpdateRatings_EvenMatchIncorrect(t *testing.T) {
	u := UpdateRatings(1500, 1500, false)
	assert.Equal(t, -16, u.Delta)
	assert.Equal(t, 1484, u.LearnerRating)
	assert.Equal(t, 1516, u.WordRating)
}

func TestUpdateRatings_ZeroSum(t *testing.T) {
	cases := []struct {
		learner int
		word    int
		success bool
	}{
		{1500, 1500, true},
		{1500, 1500, false},
		{1200, 1800, true},
		{1200, 1800, false},
		{1950, 1100, true},
		{1950, 1100, false},
	}
	for _, tc := range cases {
		u := UpdateRatings(tc.learner, tc.word, tc.success)
		learnerGain := u.LearnerRating - tc.learner
		wordGain := u.WordRating - tc.word
		assert.Equal(t, -wordGain, learnerGain,
			"zero-sum violated for (%d, %d, %v)", tc.learner, tc.word, tc.success)
	}
}

func TestUpdateRatings_UpsetMovesMore(t *testing.T) {
	upset := UpdateRatings(1200, 1800, true)
	expectedWin := UpdateRatings(1800, 1200, true)
	assert.Greater(t, upset.Delta, expectedWin.Delta)
}

func TestTierForPercentile_Monotonic(t *testing.T) {
	prev := 0
	for p := 0.0; p <= 1.0; p += 0.01 {
		tier := TierForPercentile(p)
		assert.GreaterOrEqual(t, tier, prev)
		assert.GreaterOrEqual(t, tier, 1)
		assert.LessOrEqual(t, tier, MaxTier)
		prev = tier
	}
}

func TestTierForPercentile_Bounds(t *testing.T) {
	assert.Equal(t, 1, TierForPercentile(0))
	assert.Equal(t, 1, TierForPercentile(-0.5))
	assert.Equal(t, MaxTier, TierForPercentile(1.0))
	assert.Equal(t, MaxTier, TierForPercentile(1.5))
}

func TestDefaultRatingForTier(t *testing.T) {
	assert.Equal(t, 1500, DefaultRatingForTier(4))
	assert.Equal(t, DefaultRatingForTier(1), DefaultRatingForTier(0))
	assert.Equal(t, DefaultRatingForTier(MaxTier), DefaultRatingForTier(99))

	prev := 0
	for tier := 1; tier <= MaxTier; tier++ {
		r := DefaultRatingForTier(tier)
		assert.Greater(t, r, prev, "default ratings should rise with tier")
		prev = r
	}
}

func TestClampTier(t *testing.T) {
	assert.Equal(t, 1, ClampTier(0, 7))
	assert.Equal(t, 7, ClampTier(9, 0))
	assert.Equal(t, 5, ClampTier(9, 5))
	assert.Equal(t, 3, ClampTier(3, 5))
}
