package classifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/ml_client"
	"github.com/Shrirang13/SecuRizz/internal/models"
)

// NeuralStrategy runs the source through the external multi-label neural
// classifier. Every call is bounded by Timeout so inference never blocks
// indefinitely.
type NeuralStrategy struct {
	client  *ml_client.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewNeuralStrategy wraps an inference service client.
func NewNeuralStrategy(client *ml_client.Client, timeout time.Duration, logger *zap.Logger) *NeuralStrategy {
	return &NeuralStrategy{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Name identifies the strategy.
func (s *NeuralStrategy) Name() string {
	return "neural"
}

// Available probes the inference service. The engine selects this strategy
// only when the probe succeeds.
func (s *NeuralStrategy) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	health, err := s.client.HealthCheck(probeCtx)
	if err != nil {
		s.logger.Debug("Inference service probe failed", zap.Error(err))
		return false
	}
	return health.ModelLoaded
}

// Classify calls the inference service and assembles the probability vector
// in label-space order. A response missing any label is treated as malformed.
func (s *NeuralStrategy) Classify(ctx context.Context, doc *models.SourceDocument, labelSpace *models.LabelSpace) ([]float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Classify(callCtx, doc.Text, doc.Language)
	if err != nil {
		return nil, fmt.Errorf("neural classification failed: %w", err)
	}

	probs := make([]float64, labelSpace.Len())
	for i, label := range labelSpace.Labels {
		p, ok := resp.Probabilities[label]
		if !ok {
			return nil, fmt.Errorf("malformed inference response: missing label %q", label)
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("malformed inference response: probability %f for label %q", p, label)
		}
		probs[i] = p
	}
	return probs, nil
}
