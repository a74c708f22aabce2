package worddiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_ExactMatch(t *testing.T) {
	res := Diff("friend", "friend")
	assert.Equal(t, 0, res.Summary.Total())
	require.Len(t, res.Ops, 6)
	for _, op := range res.Ops {
		assert.Equal(t, OpMatch, op.Type)
	}
}

func TestDiff_CaseInsensitive(t *testing.T) {
	res := Diff("Friend", "FRIEND")
	assert.Equal(t, 0, res.Summary.Total())
}

func TestDiff_Transposition(t *testing.T) {
	res := Diff("friend", "freind")

	assert.Equal(t, 1, res.Summary.Transpositions)
	assert.Equal(t, 0, res.Summary.Substitutions)
	assert.Equal(t, 0, res.Summary.Omissions)
	assert.Equal(t, 0, res.Summary.Additions)

	var trans *Op
	for i := range res.Ops {
		if res.Ops[i].Type == OpTransposition {
			trans = &res.Ops[i]
		}
	}
	require.NotNil(t, trans)
	assert.Equal(t, 2, trans.CorrectIndex, "swap starts at the 'i' of friend")
	assert.Equal(t, "ie", trans.CorrectChars)
	assert.Equal(t, "ei", trans.UserChars)
}

func TestDiff_Substitution(t *testing.T) {
	res := Diff("cat", "cut")
	assert.Equal(t, 1, res.Summary.Substitutions)
	assert.Equal(t, 1, res.Summary.Total())
}

func TestDiff_Omission(t *testing.T) {
	res := Diff("little", "litle")
	assert.Equal(t, 1, res.Summary.Omissions)
	assert.Equal(t, 1, res.Summary.Total())
}

func TestDiff_Addition(t *testing.T) {
	res := Diff("truly", "truely")
	assert.Equal(t, 1, res.Summary.Additions)
	assert.Equal(t, 1, res.Summary.Total())
}

func TestDiff_EmptyAttempt(t *testing.T) {
	res := Diff("dog", "")
	assert.Equal(t, 3, res.Summary.Omissions)
	require.Len(t, res.Ops, 3)
}

func TestDiff_EmptyCorrect(t *testing.T) {
	res := Diff("", "dog")
	assert.Equal(t, 3, res.Summary.Additions)
}

// reconstruct verifies the edit-script guarantee: the ops replay both input
// strings when read in order.
func reconstruct(res Result) (correct, attempt string) {
	var cb, ab strings.Builder
	for _, op := range res.Ops {
		if op.Type != OpAddition {
			cb.WriteString(op.CorrectChars)
		}
		if op.Type != OpOmission {
			ab.WriteString(op.UserChars)
		}
	}
	return cb.String(), ab.String()
}

func TestDiff_Reconstruction(t *testing.T) {
	cases := []struct {
		correct string
		attempt string
	}{
		{"friend", "freind"},
		{"their", "thier"},
		{"because", "becuase"},
		{"necessary", "neccessary"},
		{"rhythm", "rythm"},
		{"beautiful", "butiful"},
		{"weird", "wierd"},
		{"separate", "seperate"},
		{"island", "ilsand"},
		{"night", "nite"},
		{"dog", ""},
		{"", "dog"},
		{"a", "b"},
		{"abcdef", "fedcba"},
	}

	for _, tc := range cases {
		res := Diff(tc.correct, tc.attempt)
		gotCorrect, gotAttempt := reconstruct(res)
		assert.Equal(t, tc.correct, gotCorrect, "correct-side reconstruction for %q/%q", tc.correct, tc.attempt)
		assert.Equal(t, tc.attempt, gotAttempt, "attempt-side reconstruction for %q/%q", tc.correct, tc.attempt)
	}
}

func TestErrorIndexes_TranspositionContributesBoth(t *testing.T) {
	res := Diff("their", "thier")
	assert.ElementsMatch(t, []int{2, 3}, res.ErrorIndexes())
}

func TestErrorIndexes_AdditionContributesNone(t *testing.T) {
	res := Diff("truly", "truely")
	assert.Empty(t, res.ErrorIndexes())
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Distance("word", "word"))
	assert.Equal(t, 1, Distance("friend", "freind"))
	assert.Equal(t, 2, Distance("kitten", "mittens"))
	assert.Equal(t, 1, Distance(" word ", "wrd"))
}
