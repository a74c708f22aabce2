// Package leveling decides whether a learner's difficulty tier should move,
// from recent accuracy and latency early in a session and from mini-set
// outcomes afterwards. Both policies are pure; callers persist the results.
package leveling

import "sort"

const (
	// MinTier and the learner's configured max tier bound every adjustment.
	MinTier = 1

	// coldStartWindow is how many recent attempts the cold-start policy
	// looks at.
	coldStartWindow = 10
	// coldStartMinAttempts is the floor below which cold-start does nothing.
	coldStartMinAttempts = 5
	// promoteAccuracy and demoteAccuracy are the accuracy cut points.
	promoteAccuracy = 0.8
	demoteAccuracy  = 0.4
	// promoteLatencyMs is the median-latency ceiling for a promotion.
	promoteLatencyMs = 5000

	// promoteConfidence and demoteConfidence are the accumulated ladder
	// thresholds; crossing one moves the tier and resets the accumulator.
	promoteConfidence = 2
	demoteConfidence  = -2
)

// AttemptSample is the slice of an attempt the cold-start policy needs.
type AttemptSample struct {
	Correct   bool
	LatencyMs int
}

// ColdStartAdjust applies the early-session policy: over up to the last ten
// attempts, accuracy at or above 0.8 with a sub-5s median latency raises the
// tier, accuracy at or below 0.4 lowers it. Fewer than five attempts, or
// anything in between, leaves the tier alone. Samples are newest last.
func ColdStartAdjust(samples []AttemptSample, currentTier, maxTier int) int {
	if len(samples) < coldStartMinAttempts {
		return currentTier
	}
	if len(samples) > coldStartWindow {
		samples = samples[len(samples)-coldStartWindow:]
	}

	correct := 0
	latencies := make([]int, len(samples))
	for i, s := range samples {
		if s.Correct {
			correct++
		}
		latencies[i] = s.LatencyMs
	}
	accuracy := float64(correct) / float64(len(samples))

	switch {
	case accuracy >= promoteAccuracy && medianLatency(latencies) < promoteLatencyMs:
		return clampTier(currentTier+1, maxTier)
	case accuracy <= demoteAccuracy:
		return clampTier(currentTier-1, maxTier)
	default:
		return currentTier
	}
}

// ConfidenceDelta maps a completed mini-set's correct count to a ladder
// delta: four or five correct is +1, two or fewer is -1.
func ConfidenceDelta(correctCount int) int {
	switch {
	case correctCount >= 4:
		return 1
	case correctCount <= 2:
		return -1
	default:
		return 0
	}
}

// ApplyConfidence folds a mini-set delta into the accumulated ladder score.
// Crossing +2 or -2 emits a tier shift and resets the accumulator.
func ApplyConfidence(accumulated, delta int) (newAccumulated, tierShift int) {
	accumulated += delta
	switch {
	case accumulated >= promoteConfidence:
		return 0, 1
	case accumulated <= demoteConfidence:
		return 0, -1
	default:
		return accumulated, 0
	}
}

func clampTier(tier, maxTier int) int {
	if tier < MinTier {
		return MinTier
	}
	if maxTier > 0 && tier > maxTier {
		return maxTier
	}
	return tier
}

// medianLatency is the even-length-averaged median of the given latencies.
func medianLatency(latencies []int) int {
	sorted := append([]int{}, latencies...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
