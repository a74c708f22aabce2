package lessons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_EmptyMissedSet(t *testing.T) {
	assert.Nil(t, Generate(nil))
	assert.Nil(t, Generate([]MissedWord{}))
}

func TestGenerate_PicksBestOverlapAcrossSet(t *testing.T) {
	missed := []MissedWord{
		{Word: "hope", Attempt: "hipe"},   // error outside every region
		{Word: "night", Attempt: "nite"},  // two errors inside the igh region
	}
	lesson := Generate(missed)
	require.NotNil(t, lesson)
	assert.Equal(t, "igh", lesson.PatternID)
}

func TestGenerate_FramesDominantErrorType(t *testing.T) {
	lesson := Generate([]MissedWord{{Word: "friend", Attempt: "freind"}})
	require.NotNil(t, lesson)
	assert.Equal(t, "ie-ei", lesson.PatternID)
	assert.True(t, strings.HasPrefix(lesson.Explanation, "You swapped two letters around."),
		"explanation should open with the transposition framing, got %q", lesson.Explanation)
	assert.NotEmpty(t, lesson.Examples)
}

func TestGenerate_EmptyAttemptsAreSkipped(t *testing.T) {
	// Empty attempts can't be diffed meaningfully; the fallback applies
	// the first matching pattern to the first missed word instead.
	lesson := Generate([]MissedWord{{Word: "hope", Attempt: ""}})
	require.NotNil(t, lesson)
	assert.Equal(t, "silent-final-e", lesson.PatternID)
	assert.False(t, strings.HasPrefix(lesson.Explanation, "You"),
		"no framing sentence without a diff")
}

func TestGenerate_GenericFallback(t *testing.T) {
	lesson := Generate([]MissedWord{{Word: "ad", Attempt: "at"}})
	require.NotNil(t, lesson)
	assert.Empty(t, lesson.PatternID)
	assert.Equal(t, "Keep practicing", lesson.PatternName)
	assert.Nil(t, lesson.Quiz)
}

func TestGenerate_ZeroOverlapUsesFirstWordFallback(t *testing.T) {
	lesson := Generate([]MissedWord{{Word: "hope", Attempt: "hipe"}})
	require.NotNil(t, lesson)
	assert.Equal(t, "silent-final-e", lesson.PatternID)
}
