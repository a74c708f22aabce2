package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_IDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Catalog() {
		assert.False(t, seen[p.ID], "duplicate pattern id %s", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Explanation)
		assert.NotEmpty(t, p.Examples)
		assert.NotNil(t, p.Detect)
	}
}

func TestByID(t *testing.T) {
	assert.NotNil(t, ByID("silent-final-e"))
	assert.Nil(t, ByID("no-such-pattern"))
}

func TestDetectSilentFinalE(t *testing.T) {
	p := ByID("silent-final-e")

	regions := p.DetectRegions("hope")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 3, End: 4}, regions[0])

	assert.Empty(t, p.DetectRegions("tree"), "vowel before final e")
	assert.Empty(t, p.DetectRegions("hop"))
	assert.Empty(t, p.DetectRegions("be"), "too short")
}

func TestDetectRegions_MultibyteRuneOffsets(t *testing.T) {
	p := ByID("silent-final-e")

	// "naïve" is six bytes but five runes; the region comes back in rune
	// offsets so it lines up with diff indices.
	regions := p.DetectRegions("naïve")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 4, End: 5}, regions[0])
}

func TestDetectDoubledConsonant(t *testing.T) {
	p := ByID("doubled-consonant")

	regions := p.DetectRegions("rabbit")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 2, End: 4}, regions[0])

	regions = p.DetectRegions("mississippi")
	assert.Len(t, regions, 3)

	assert.Empty(t, p.DetectRegions("book"), "doubled vowels don't count")
}

func TestDetectIghCaseFolded(t *testing.T) {
	p := ByID("igh")
	regions := p.DetectRegions("Night")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 1, End: 4}, regions[0])
}

func TestDetectSilentLetters(t *testing.T) {
	p := ByID("silent-letters")

	regions := p.DetectRegions("knee")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 0, End: 2}, regions[0])

	regions = p.DetectRegions("lamb")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 2, End: 4}, regions[0])

	assert.Empty(t, p.DetectRegions("net"))
}

func TestDetectSuffix_RequiresStem(t *testing.T) {
	p := ByID("suffix")
	assert.NotEmpty(t, p.DetectRegions("jumped"))
	assert.NotEmpty(t, p.DetectRegions("running"))
	assert.Empty(t, p.DetectRegions("red"), "no stem before 'ed'")
}

func TestDetectRControlled(t *testing.T) {
	p := ByID("r-controlled")
	regions := p.DetectRegions("bird")
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 1, End: 3}, regions[0])
}

func TestDetectSoftC(t *testing.T) {
	p := ByID("soft-c")
	assert.NotEmpty(t, p.DetectRegions("city"))
	assert.NotEmpty(t, p.DetectRegions("circle"))
	assert.Empty(t, p.DetectRegions("cat"))
}

func TestDetectLEEnding(t *testing.T) {
	p := ByID("le-ending")
	assert.NotEmpty(t, p.DetectRegions("little"))
	assert.NotEmpty(t, p.DetectRegions("table"))
	assert.Empty(t, p.DetectRegions("pole"), "vowel before le")
}

func TestFirstMatching(t *testing.T) {
	p := FirstMatching("hope")
	require.NotNil(t, p)
	assert.Equal(t, "silent-final-e", p.ID, "catalog order decides")

	assert.Nil(t, FirstMatching("ad"), "no rule applies")
}
