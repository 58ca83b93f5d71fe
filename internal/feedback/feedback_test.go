package feedback

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

func ratingPtr(r float64) *float64 { return &r }

func validSubmission() *Submission {
	return &Submission{
		ContractHash:    "a1b2c3",
		PredictedLabels: []string{"reentrancy"},
		ActualLabels:    []string{"reentrancy", "tx_origin"},
		AccuracyRating:  ratingPtr(8),
		ContributorID:   "contributor-1",
		Comments:        "missed the auth issue",
	}
}

func TestIngestAccepted(t *testing.T) {
	queue := NewQueue(4)
	intake := NewIntake(queue, zap.NewNop())

	accepted, reason := intake.Ingest(validSubmission())
	assert.True(t, accepted)
	assert.Empty(t, reason)
	assert.Equal(t, 1, queue.Depth())
}

func TestIngestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		reason string
	}{
		{"missing contract hash", func(s *Submission) { s.ContractHash = "" }, ReasonMissingContractHash},
		{"missing predicted", func(s *Submission) { s.PredictedLabels = nil }, ReasonMissingPredicted},
		{"missing actual", func(s *Submission) { s.ActualLabels = nil }, ReasonMissingActual},
		{"missing rating", func(s *Submission) { s.AccuracyRating = nil }, ReasonMissingRating},
		{"rating above range", func(s *Submission) { s.AccuracyRating = ratingPtr(11) }, ReasonInvalidRating},
		{"rating below range", func(s *Submission) { s.AccuracyRating = ratingPtr(-1) }, ReasonInvalidRating},
		{"spam keyword", func(s *Submission) { s.Comments = "this is an automated review" }, ReasonSpam},
		{"repeated characters", func(s *Submission) { s.Comments = "greeeeeat contract" }, ReasonSpam},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			queue := NewQueue(4)
			intake := NewIntake(queue, zap.NewNop())

			sub := validSubmission()
			tc.mutate(sub)

			accepted, reason := intake.Ingest(sub)
			assert.False(t, accepted)
			assert.Equal(t, tc.reason, reason)
			assert.Equal(t, 0, queue.Depth(), "rejected feedback must not enter the queue")
		})
	}
}

func TestIngestZeroRatingValid(t *testing.T) {
	// A zero rating is a legitimate (harsh) score, distinct from a missing one.
	queue := NewQueue(4)
	intake := NewIntake(queue, zap.NewNop())

	sub := validSubmission()
	sub.AccuracyRating = ratingPtr(0)

	accepted, reason := intake.Ingest(sub)
	assert.True(t, accepted)
	assert.Empty(t, reason)
}

func TestIngestQueueFull(t *testing.T) {
	queue := NewQueue(1)
	intake := NewIntake(queue, zap.NewNop())

	accepted, _ := intake.Ingest(validSubmission())
	require.True(t, accepted)

	accepted, reason := intake.Ingest(validSubmission())
	assert.False(t, accepted)
	assert.Equal(t, ReasonQueueFull, reason)
	assert.Equal(t, 1, queue.Depth())
}

func TestQueueDrain(t *testing.T) {
	queue := NewQueue(8)
	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Enqueue(&models.FeedbackItem{ID: fmt.Sprintf("fb-%d", i)}))
	}

	batch := queue.Drain(3)
	assert.Len(t, batch, 3)
	assert.Equal(t, "fb-0", batch[0].ID)
	assert.Equal(t, 2, queue.Depth())

	rest := queue.Drain(10)
	assert.Len(t, rest, 2)
	assert.Empty(t, queue.Drain(10))
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	queue := NewQueue(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, queue.Enqueue(&models.FeedbackItem{ID: fmt.Sprintf("fb-%d", i)}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, queue.Depth())
}

func TestWeight(t *testing.T) {
	// 1.0 * (1 + 0.9) * (1 + 2000/1000) = 5.7
	assert.InDelta(t, 5.7, Weight(0.9, 2000), 1e-9)

	// Neutral contributor keeps the base weight.
	assert.InDelta(t, 1.0, Weight(0, 0), 1e-9)

	// Huge stake is clamped to the ceiling.
	assert.Equal(t, 10.0, Weight(1.0, 100000))
}

func TestBatchWeightsNormalized(t *testing.T) {
	batch := []*models.FeedbackItem{
		{ID: "a", ContributorID: "c1"},
		{ID: "b", ContributorID: "c2"},
		{ID: "c", ContributorID: "c3"},
	}

	weights := BatchWeights(batch, StaticReputation{Accuracy: 0.5, Stake: 500})
	require.Len(t, weights, 3)

	sum := 0.0
	for _, w := range weights {
		sum += w
		assert.Greater(t, w, 0.0)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBatchWeightsEmpty(t *testing.T) {
	assert.Empty(t, BatchWeights(nil, StaticReputation{}))
}
