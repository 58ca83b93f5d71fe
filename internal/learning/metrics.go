package learning

import "github.com/Shrirang13/SecuRizz/internal/models"

// LabelAccuracy tracks how often a label was predicted when it was actually
// present.
type LabelAccuracy struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// BatchMetrics aggregates one feedback batch. Precision and recall are
// derived from the set intersection of predicted and actual labels.
type BatchMetrics struct {
	AverageAccuracy float64                  `json:"average_accuracy"`
	TruePositives   int                      `json:"true_positives"`
	FalsePositives  int                      `json:"false_positives"`
	FalseNegatives  int                      `json:"false_negatives"`
	PerLabel        map[string]LabelAccuracy `json:"per_label"`
	ItemCount       int                      `json:"item_count"`
}

// Precision returns TP / (TP + FP), or 0 with no positives.
func (m BatchMetrics) Precision() float64 {
	denom := m.TruePositives + m.FalsePositives
	if denom == 0 {
		return 0
	}
	return float64(m.TruePositives) / float64(denom)
}

// Recall returns TP / (TP + FN), or 0 with no actuals.
func (m BatchMetrics) Recall() float64 {
	denom := m.TruePositives + m.FalseNegatives
	if denom == 0 {
		return 0
	}
	return float64(m.TruePositives) / float64(denom)
}

// ComputeMetrics aggregates a drained feedback batch.
func ComputeMetrics(batch []*models.FeedbackItem) BatchMetrics {
	metrics := BatchMetrics{
		PerLabel:  make(map[string]LabelAccuracy),
		ItemCount: len(batch),
	}

	ratingSum := 0.0
	for _, item := range batch {
		ratingSum += item.AccuracyRating

		predicted := toSet(item.PredictedLabels)
		actual := toSet(item.ActualLabels)

		for label := range predicted {
			if _, ok := actual[label]; ok {
				metrics.TruePositives++
			} else {
				metrics.FalsePositives++
			}
		}
		for label := range actual {
			acc := metrics.PerLabel[label]
			acc.Total++
			if _, ok := predicted[label]; ok {
				acc.Correct++
			} else {
				metrics.FalseNegatives++
			}
			metrics.PerLabel[label] = acc
		}
	}

	if len(batch) > 0 {
		metrics.AverageAccuracy = ratingSum / float64(len(batch))
	}
	return metrics
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}
