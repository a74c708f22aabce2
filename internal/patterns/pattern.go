// Package patterns holds the fixed catalog of spelling-pattern rules and the
// error-aware matcher that scores which rule best explains the diff between
// a target word and a learner's attempt.
package patterns

// Region is a half-open [Start, End) character range over a lowercase word.
type Region struct {
	Start int
	End   int
}

// Contains reports whether the index falls inside the region.
func (r Region) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Quiz is an optional comprehension check attached to a pattern.
type Quiz struct {
	Question string
	Answer   string
}

// ExamplePair is a contrastive pair of correct and commonly miswritten
// spellings illustrating the pattern.
type ExamplePair struct {
	Correct string
	Wrong   string
}

// Pattern is one named spelling rule. Detect maps a lowercase word to zero
// or more regions where the rule applies; it never mutates and never errors.
type Pattern struct {
	ID          string
	Name        string
	Explanation string
	Examples    []ExamplePair
	Quiz        *Quiz
	Detect      func(word string) []Region
}

// DetectRegions runs the detector against the lowercase form of word.
// Regions come back in rune offsets, matching the diff engine's indexing.
func (p *Pattern) DetectRegions(word string) []Region {
	w := lower(word)
	return runeAligned(w, p.Detect(w))
}

// runeAligned converts byte-offset regions to rune offsets. Detectors index
// with the strings package, so the two only diverge on words carrying
// multibyte letters. Regions not on rune boundaries are dropped.
func runeAligned(word string, regions []Region) []Region {
	if len(regions) == 0 || len(word) == len([]rune(word)) {
		return regions
	}
	runeAt := make(map[int]int, len(word)+1)
	n := 0
	for i := range word {
		runeAt[i] = n
		n++
	}
	runeAt[len(word)] = n

	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		start, okStart := runeAt[r.Start]
		end, okEnd := runeAt[r.End]
		if !okStart || !okEnd {
			continue
		}
		out = append(out, Region{Start: start, End: end})
	}
	return out
}
