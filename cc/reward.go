package cc

const (
	// RewardImproved is granted when utility strictly increased across a step.
	RewardImproved = 10.0
	// RewardNotImproved is granted otherwise, including when utility is unchanged.
	RewardNotImproved = -20.0
	// Discount is the bootstrapping factor γ of the learning target.
	Discount = 0.95
)

// Reward compares utility before and after a step. The simulator's own reward is not consulted.
// Non-finite utilities compare per IEEE rules: NaN never counts as an improvement.
func Reward(prev, next Observation) float64 {
	if Utility(next.Throughput, next.AvgRTT) > Utility(prev.Throughput, prev.AvgRTT) {
		return RewardImproved
	}
	return RewardNotImproved
}

// LearningTarget returns reward when the episode is done (or no value estimates are
// available), else reward + Discount·max(nextValues).
func LearningTarget(reward float64, done bool, nextValues []float64) float64 {
	if done || len(nextValues) == 0 {
		return reward
	}
	best := nextValues[0]
	for _, v := range nextValues[1:] {
		if v > best {
			best = v
		}
	}
	return reward + Discount*best
}

// Argmax returns the index of the largest value. Ties go to the lowest index.
// Returns -1 for an empty slice.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	bestIdx := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[bestIdx] {
			bestIdx = i
		}
	}
	return bestIdx
}
