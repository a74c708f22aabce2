// Package worddiff computes letter-level alignments between a target word
// and a learner's spelling attempt. The alignment classifies every position
// as a match, substitution, omission, addition, or transposition, which the
// pattern matcher uses to locate where in the word an error happened.
package worddiff

import (
	"strings"
	"unicode"
)

// OpType classifies one unit of difference between the target and attempt.
type OpType string

const (
	OpMatch         OpType = "match"
	OpSubstitution  OpType = "substitution"
	OpOmission      OpType = "omission"
	OpAddition      OpType = "addition"
	OpTransposition OpType = "transposition"
)

// Op is a single step of the edit script. For an addition CorrectIndex is -1
// and CorrectChars is empty; for an omission UserIndex is -1 and UserChars is
// empty. A transposition consumes two characters from each string, so
// CorrectChars and UserChars each hold two runes and the indices refer to
// the first of the pair.
type Op struct {
	Type         OpType `json:"type"`
	CorrectIndex int    `json:"correctIndex"`
	UserIndex    int    `json:"userIndex"`
	CorrectChars string `json:"correctChars"`
	UserChars    string `json:"userChars"`
}

// Summary counts the non-match operations of a diff.
type Summary struct {
	Substitutions  int `json:"substitutions"`
	Omissions      int `json:"omissions"`
	Additions      int `json:"additions"`
	Transpositions int `json:"transpositions"`
}

// Total returns the total number of non-match operations.
func (s Summary) Total() int {
	return s.Substitutions + s.Omissions + s.Additions + s.Transpositions
}

// Result is the full alignment between a target word and an attempt.
type Result struct {
	Ops     []Op    `json:"ops"`
	Summary Summary `json:"summary"`
}

// ErrorIndexes returns every target-word index touched by a non-match op.
// Transpositions contribute both of their indices; additions, which have no
// target-side character, contribute none.
func (r Result) ErrorIndexes() []int {
	var idx []int
	for _, op := range r.Ops {
		switch op.Type {
		case OpSubstitution, OpOmission:
			idx = append(idx, op.CorrectIndex)
		case OpTransposition:
			idx = append(idx, op.CorrectIndex, op.CorrectIndex+1)
		}
	}
	return idx
}

// Diff aligns attempt against correct using Damerau-Levenshtein dynamic
// programming. Comparison is case-insensitive; the emitted ops carry the
// original characters so that concatenating CorrectChars (skipping
// additions) reconstructs correct and concatenating UserChars (skipping
// omissions) reconstructs attempt. Always terminates; O(n*m) time and space.
func Diff(correct, attempt string) Result {
	c := []rune(correct)
	a := []rune(attempt)
	cf := foldRunes(c)
	af := foldRunes(a)
	n, m := len(c), len(a)

	// cost[i][j] is the edit distance between c[:i] and a[:j], with an
	// adjacent transposition allowed at cost 1.
	cost := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]int, m+1)
		cost[i][0] = i
	}
	for j := 0; j <= m; j++ {
		cost[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			subCost := 1
			if cf[i-1] == af[j-1] {
				subCost = 0
			}
			best := cost[i-1][j-1] + subCost
			if d := cost[i-1][j] + 1; d < best {
				best = d
			}
			if d := cost[i][j-1] + 1; d < best {
				best = d
			}
			if transposable(cf, af, i, j) {
				if d := cost[i-2][j-2] + 1; d < best {
					best = d
				}
			}
			cost[i][j] = best
		}
	}

	// Backtrace, preferring exact match, then an eligible transposition,
	// then whichever of insert/delete/substitute reaches the minimal-cost
	// predecessor.
	var rev []Op
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && cf[i-1] == af[j-1] && cost[i][j] == cost[i-1][j-1]:
			rev = append(rev, Op{
				Type:         OpMatch,
				CorrectIndex: i - 1,
				UserIndex:    j - 1,
				CorrectChars: string(c[i-1]),
				UserChars:    string(a[j-1]),
			})
			i--
			j--
		case transposable(cf, af, i, j) && cost[i][j] == cost[i-2][j-2]+1:
			rev = append(rev, Op{
				Type:         OpTransposition,
				CorrectIndex: i - 2,
				UserIndex:    j - 2,
				CorrectChars: string(c[i-2 : i]),
				UserChars:    string(a[j-2 : j]),
			})
			i -= 2
			j -= 2
		case j > 0 && (i == 0 || cost[i][j] == cost[i][j-1]+1):
			rev = append(rev, Op{
				Type:         OpAddition,
				CorrectIndex: -1,
				UserIndex:    j - 1,
				UserChars:    string(a[j-1]),
			})
			j--
		case i > 0 && (j == 0 || cost[i][j] == cost[i-1][j]+1):
			rev = append(rev, Op{
				Type:         OpOmission,
				CorrectIndex: i - 1,
				UserIndex:    -1,
				CorrectChars: string(c[i-1]),
			})
			i--
		default:
			rev = append(rev, Op{
				Type:         OpSubstitution,
				CorrectIndex: i - 1,
				UserIndex:    j - 1,
				CorrectChars: string(c[i-1]),
				UserChars:    string(a[j-1]),
			})
			i--
			j--
		}
	}

	ops := make([]Op, len(rev))
	for k, op := range rev {
		ops[len(rev)-1-k] = op
	}

	var sum Summary
	for _, op := range ops {
		switch op.Type {
		case OpSubstitution:
			sum.Substitutions++
		case OpOmission:
			sum.Omissions++
		case OpAddition:
			sum.Additions++
		case OpTransposition:
			sum.Transpositions++
		}
	}
	return Result{Ops: ops, Summary: sum}
}

// transposable reports whether positions (i, j) end an adjacent swap, i.e.
// c[i-2:i] and a[j-2:j] are the same two characters crossed over.
func transposable(cf, af []rune, i, j int) bool {
	return i > 1 && j > 1 &&
		cf[i-1] == af[j-2] && cf[i-2] == af[j-1] &&
		cf[i-1] != cf[i-2]
}

func foldRunes(rs []rune) []rune {
	folded := make([]rune, len(rs))
	for i, r := range rs {
		folded[i] = unicode.ToLower(r)
	}
	return folded
}

// Distance returns only the Damerau-Levenshtein distance between the two
// strings, case-insensitive.
func Distance(correct, attempt string) int {
	return Diff(strings.TrimSpace(correct), strings.TrimSpace(attempt)).Summary.Total()
}
