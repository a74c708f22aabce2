package patterns

import (
	"github.com/hypandra/spellbetternow/internal/worddiff"
)

// Match is the result of scoring the catalog against one missed word.
type Match struct {
	Pattern    *Pattern
	DominantOp worddiff.OpType
	Overlap    int
	Diff       worddiff.Result
}

// FindBestMatch diffs attempt against word and returns the pattern that best
// explains where the errors landed: the one whose regions cover the most
// error positions. Ties go to the earlier catalog entry. When no pattern
// overlaps any error position, the first pattern whose regions matched the
// word at all is returned with Overlap 0. Returns nil when no pattern
// matches the word.
func FindBestMatch(word, attempt string) *Match {
	diff := worddiff.Diff(word, attempt)

	opAt := make(map[int]worddiff.OpType)
	for _, op := range diff.Ops {
		switch op.Type {
		case worddiff.OpSubstitution, worddiff.OpOmission:
			opAt[op.CorrectIndex] = op.Type
		case worddiff.OpTransposition:
			opAt[op.CorrectIndex] = op.Type
			opAt[op.CorrectIndex+1] = op.Type
		}
	}

	var best *Match
	var anyRegions *Pattern
	for _, p := range catalog {
		regions := p.DetectRegions(word)
		if len(regions) == 0 {
			continue
		}
		if anyRegions == nil {
			anyRegions = p
		}

		overlap := 0
		opCounts := make(map[worddiff.OpType]int)
		for idx, opType := range opAt {
			for _, r := range regions {
				if r.Contains(idx) {
					overlap++
					opCounts[opType]++
					break
				}
			}
		}
		if overlap == 0 {
			continue
		}
		if best == nil || overlap > best.Overlap {
			best = &Match{
				Pattern:    p,
				DominantOp: dominantOp(opCounts),
				Overlap:    overlap,
				Diff:       diff,
			}
		}
	}

	if best != nil {
		return best
	}
	if anyRegions != nil {
		return &Match{
			Pattern:    anyRegions,
			DominantOp: overallDominantOp(diff.Summary),
			Overlap:    0,
			Diff:       diff,
		}
	}
	return nil
}

// dominantOp picks the most frequent op type among region hits, breaking
// ties in a fixed severity order.
func dominantOp(counts map[worddiff.OpType]int) worddiff.OpType {
	order := []worddiff.OpType{
		worddiff.OpSubstitution,
		worddiff.OpOmission,
		worddiff.OpTransposition,
		worddiff.OpAddition,
	}
	var best worddiff.OpType
	bestCount := 0
	for _, t := range order {
		if counts[t] > bestCount {
			best = t
			bestCount = counts[t]
		}
	}
	return best
}

// overallDominantOp falls back to the most frequent op type across the
// whole diff, used when no pattern region overlaps an error position.
func overallDominantOp(s worddiff.Summary) worddiff.OpType {
	counts := map[worddiff.OpType]int{
		worddiff.OpSubstitution:  s.Substitutions,
		worddiff.OpOmission:      s.Omissions,
		worddiff.OpTransposition: s.Transpositions,
		worddiff.OpAddition:      s.Additions,
	}
	return dominantOp(counts)
}
