package feedback

import "github.com/Shrirang13/SecuRizz/internal/models"

// Contributor weight bounds.
const (
	baseWeight = 1.0
	minWeight  = 0.1
	maxWeight  = 10.0
)

// ReputationSource supplies the stake-like trust signals for a contributor.
// historicalAccuracy is in [0,1], stakeSignal in native token units.
type ReputationSource interface {
	HistoricalAccuracy(contributorID string) float64
	StakeSignal(contributorID string) float64
}

// Weight computes the contributor multiplier:
// clamp(base * (1 + historicalAccuracy) * (1 + stake/1000), 0.1, 10.0).
func Weight(historicalAccuracy, stakeSignal float64) float64 {
	w := baseWeight * (1 + historicalAccuracy) * (1 + stakeSignal/1000)
	if w < minWeight {
		return minWeight
	}
	if w > maxWeight {
		return maxWeight
	}
	return w
}

// BatchWeights recomputes the weight of every item in a batch from the
// reputation source and normalizes so the weights sum to 1. Weights are never
// cached across aggregation passes.
func BatchWeights(batch []*models.FeedbackItem, reputation ReputationSource) []float64 {
	weights := make([]float64, len(batch))
	total := 0.0
	for i, item := range batch {
		w := Weight(reputation.HistoricalAccuracy(item.ContributorID), reputation.StakeSignal(item.ContributorID))
		weights[i] = w
		total += w
	}
	if total == 0 {
		return weights
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// StaticReputation is a fixed-signal reputation source, used when no history
// store is configured and in tests.
type StaticReputation struct {
	Accuracy float64
	Stake    float64
}

func (r StaticReputation) HistoricalAccuracy(string) float64 { return r.Accuracy }
func (r StaticReputation) StakeSignal(string) float64        { return r.Stake }
