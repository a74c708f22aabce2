// Package lessons turns the missed words of a mini-set into a single
// coaching explanation built from the spelling-pattern catalog.
package lessons

import (
	"github.com/hypandra/spellbetternow/internal/patterns"
	"github.com/hypandra/spellbetternow/internal/worddiff"
)

// MissedWord pairs a target word with the learner's attempt at it.
type MissedWord struct {
	Word    string
	Attempt string
}

// Lesson is the coaching output shown on the break screen.
type Lesson struct {
	PatternID   string
	PatternName string
	Explanation string
	Examples    []patterns.ExamplePair
	Quiz        *patterns.Quiz
}

// framing maps the dominant error type to an opening sentence so the lesson
// speaks to what actually went wrong rather than reciting a generic rule.
var framing = map[worddiff.OpType]string{
	worddiff.OpOmission:      "You left out a letter in this tricky part.",
	worddiff.OpSubstitution:  "You used a different letter in this pattern.",
	worddiff.OpTransposition: "You swapped two letters around.",
	worddiff.OpAddition:      "You added an extra letter here.",
}

// Generate builds one lesson for a set of missed words. It scores every
// missed word with a non-empty attempt against the pattern catalog and
// keeps the single best-overlapping result. When no attempt overlaps any
// pattern region, it falls back to the first pattern matching the first
// missed word, and finally to a generic keep-practicing lesson. Returns nil
// only when missed is empty.
func Generate(missed []MissedWord) *Lesson {
	if len(missed) == 0 {
		return nil
	}

	var best *patterns.Match
	for _, mw := range missed {
		if mw.Attempt == "" {
			continue
		}
		m := patterns.FindBestMatch(mw.Word, mw.Attempt)
		if m == nil || m.Overlap == 0 {
			continue
		}
		if best == nil || m.Overlap > best.Overlap {
			best = m
		}
	}

	if best != nil {
		return fromPattern(best.Pattern, best.DominantOp)
	}

	if p := patterns.FirstMatching(missed[0].Word); p != nil {
		return fromPattern(p, "")
	}

	return &Lesson{
		PatternName: "Keep practicing",
		Explanation: "These words don't follow one single rule. Slow down, sound each word out, and picture it before you type.",
	}
}

func fromPattern(p *patterns.Pattern, dominant worddiff.OpType) *Lesson {
	explanation := p.Explanation
	if frame, ok := framing[dominant]; ok {
		explanation = frame + " " + explanation
	}
	return &Lesson{
		PatternID:   p.ID,
		PatternName: p.Name,
		Explanation: explanation,
		Examples:    p.Examples,
		Quiz:        p.Quiz,
	}
}
