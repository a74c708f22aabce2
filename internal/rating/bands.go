package rating

// MaxTier is the highest difficulty tier.
const MaxTier = 7

// tierPercentileCuts are the ascending percentile cut points for tiers 1-7.
// A learner whose percentile rank is below cut[i] lands in tier i+1.
var tierPercentileCuts = []float64{0.10, 0.25, 0.45, 0.65, 0.80, 0.92, 1.0}

// tierDefaultRatings seed a learner who starts at a known tier with no
// attempt history.
var tierDefaultRatings = []int{1150, 1280, 1400, 1500, 1620, 1750, 1900}

// TierForPercentile maps a percentile rank in [0,1] to a tier in [1,7].
// Tiers are monotonic with percentile under this fixed banding table.
func TierForPercentile(percentile float64) int {
	if percentile < 0 {
		percentile = 0
	}
	for i, cut := range tierPercentileCuts {
		if percentile < cut {
			return i + 1
		}
	}
	return MaxTier
}

// DefaultRatingForTier returns the seed rating for a learner starting at
// tier. Out-of-range tiers clamp to the table.
func DefaultRatingForTier(tier int) int {
	if tier < 1 {
		tier = 1
	}
	if tier > MaxTier {
		tier = MaxTier
	}
	return tierDefaultRatings[tier-1]
}

// ClampTier bounds a tier to [1, maxTier]. A maxTier of 0 means the global
// MaxTier.
func ClampTier(tier, maxTier int) int {
	if maxTier <= 0 || maxTier > MaxTier {
		maxTier = MaxTier
	}
	if tier < 1 {
		return 1
	}
	if tier > maxTier {
		return maxTier
	}
	return tier
}
