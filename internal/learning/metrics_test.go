package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

func TestComputeMetricsAverageAccuracy(t *testing.T) {
	ratings := []float64{9, 8, 9, 10, 2, 9, 8, 9, 9, 10}
	batch := make([]*models.FeedbackItem, len(ratings))
	for i, r := range ratings {
		batch[i] = &models.FeedbackItem{AccuracyRating: r}
	}

	metrics := ComputeMetrics(batch)
	assert.InDelta(t, 8.3, metrics.AverageAccuracy, 1e-9)
	assert.Equal(t, 10, metrics.ItemCount)
}

func TestComputeMetricsCounts(t *testing.T) {
	batch := []*models.FeedbackItem{
		{
			PredictedLabels: []string{"reentrancy", "delegatecall"},
			ActualLabels:    []string{"reentrancy", "tx_origin"},
		},
		{
			PredictedLabels: []string{"tx_origin"},
			ActualLabels:    []string{"tx_origin"},
		},
	}

	metrics := ComputeMetrics(batch)
	assert.Equal(t, 2, metrics.TruePositives)  // reentrancy, tx_origin
	assert.Equal(t, 1, metrics.FalsePositives) // delegatecall
	assert.Equal(t, 1, metrics.FalseNegatives) // missed tx_origin

	assert.InDelta(t, 2.0/3.0, metrics.Precision(), 1e-9)
	assert.InDelta(t, 2.0/3.0, metrics.Recall(), 1e-9)

	assert.Equal(t, LabelAccuracy{Correct: 1, Total: 1}, metrics.PerLabel["reentrancy"])
	assert.Equal(t, LabelAccuracy{Correct: 1, Total: 2}, metrics.PerLabel["tx_origin"])
}

func TestComputeMetricsEmptyBatch(t *testing.T) {
	metrics := ComputeMetrics(nil)
	assert.Equal(t, 0.0, metrics.AverageAccuracy)
	assert.Equal(t, 0.0, metrics.Precision())
	assert.Equal(t, 0.0, metrics.Recall())
}
