// Package rating maintains comparable skill ratings for learners and words
// on a logistic (Elo-style) scale. Each scored attempt moves the learner's
// rating and the word's rating by equal and opposite amounts.
package rating

import "math"

// DefaultRating seeds a learner or word with no history.
const DefaultRating = 1500

// KFactor controls how far a single attempt can move a rating.
const KFactor = 32

// Update is the result of scoring one attempt.
type Update struct {
	LearnerRating int
	WordRating    int
	Delta         int
}

// ExpectedScore returns the probability of the learner spelling the word
// correctly, from the logistic curve over the rating difference.
func ExpectedScore(learnerRating, wordRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(wordRating-learnerRating)/400))
}

// UpdateRatings scores one attempt. The learner's rating moves by
// round(K * (actual - expected)); the word's rating moves by the negation,
// keeping the system zero-sum.
func UpdateRatings(learnerRating, wordRating int, success bool) Update {
	expected := ExpectedScore(learnerRating, wordRating)
	actual := 0.0
	if success {
		actual = 1.0
	}
	delta := int(math.Round(KFactor * (actual - expected)))
	return Update{
		LearnerRating: learnerRating + delta,
		WordRating:    wordRating - delta,
		Delta:         delta,
	}
}
