package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samples(latency int, outcomes ...bool) []AttemptSample {
	out := make([]AttemptSample, len(outcomes))
	for i, ok := range outcomes {
		out[i] = AttemptSample{Correct: ok, LatencyMs: latency}
	}
	return out
}

func TestColdStartAdjust_TooFewAttempts(t *testing.T) {
	got := ColdStartAdjust(samples(1000, true, true, true, true), 3, 7)
	assert.Equal(t, 3, got)
}

func TestColdStartAdjust_PromotesOnFastAccuracy(t *testing.T) {
	got := ColdStartAdjust(samples(1200, true, true, true, true, false), 3, 7)
	assert.Equal(t, 4, got)
}

func TestColdStartAdjust_SlowMedianBlocksPromotion(t *testing.T) {
	got := ColdStartAdjust(samples(6000, true, true, true, true, true), 3, 7)
	assert.Equal(t, 3, got)
}

func TestColdStartAdjust_DemotesOnLowAccuracy(t *testing.T) {
	got := ColdStartAdjust(samples(2000, false, false, false, true, false), 3, 7)
	assert.Equal(t, 2, got)
}

func TestColdStartAdjust_MiddleGroundHolds(t *testing.T) {
	// 3/5 = 0.6: between both cut points.
	got := ColdStartAdjust(samples(1000, true, true, true, false, false), 3, 7)
	assert.Equal(t, 3, got)
}

func TestColdStartAdjust_Clamping(t *testing.T) {
	assert.Equal(t, 7, ColdStartAdjust(samples(1000, true, true, true, true, true), 7, 7))
	assert.Equal(t, 1, ColdStartAdjust(samples(1000, false, false, false, false, false), 1, 7))
}

func TestColdStartAdjust_WindowUsesLastTen(t *testing.T) {
	// Five early misses pushed out of the window by ten fast hits.
	s := samples(1000, false, false, false, false, false)
	s = append(s, samples(1000, true, true, true, true, true, true, true, true, true, true)...)
	got := ColdStartAdjust(s, 2, 7)
	assert.Equal(t, 3, got)
}

func TestColdStartAdjust_MedianEvenCount(t *testing.T) {
	// Latencies 4000,4000,4000,6000,6000,6000: median 5000, not below the
	// threshold, so no promotion despite perfect accuracy.
	s := []AttemptSample{
		{Correct: true, LatencyMs: 4000},
		{Correct: true, LatencyMs: 4000},
		{Correct: true, LatencyMs: 4000},
		{Correct: true, LatencyMs: 6000},
		{Correct: true, LatencyMs: 6000},
		{Correct: true, LatencyMs: 6000},
	}
	assert.Equal(t, 3, ColdStartAdjust(s, 3, 7))
}

func TestConfidenceDelta(t *testing.T) {
	assert.Equal(t, 1, ConfidenceDelta(5))
	assert.Equal(t, 1, ConfidenceDelta(4))
	assert.Equal(t, 0, ConfidenceDelta(3))
	assert.Equal(t, -1, ConfidenceDelta(2))
	assert.Equal(t, -1, ConfidenceDelta(0))
}

func TestApplyConfidence_PromotesAtTwoAndResets(t *testing.T) {
	acc, shift := ApplyConfidence(1, 1)
	assert.Equal(t, 0, acc)
	assert.Equal(t, 1, shift)
}

func TestApplyConfidence_DemotesAtMinusTwoAndResets(t *testing.T) {
	acc, shift := ApplyConfidence(-1, -1)
	assert.Equal(t, 0, acc)
	assert.Equal(t, -1, shift)
}

func TestApplyConfidence_AccumulatesBetweenThresholds(t *testing.T) {
	acc, shift := ApplyConfidence(0, 1)
	assert.Equal(t, 1, acc)
	assert.Equal(t, 0, shift)

	acc, shift = ApplyConfidence(1, -1)
	assert.Equal(t, 0, acc)
	assert.Equal(t, 0, shift)

	acc, shift = ApplyConfidence(0, 0)
	assert.Equal(t, 0, acc)
	assert.Equal(t, 0, shift)
}
