package classifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// Engine wraps the primary neural strategy and the deterministic pattern
// fallback. The call flow is a small state machine: the primary path either
// succeeds or falls through to the fallback, which always succeeds, so
// Classify never fails and never blocks past the primary timeout.
type Engine struct {
	neural   *NeuralStrategy
	fallback *PatternStrategy
	logger   *zap.Logger
}

// NewEngine builds an engine. neural may be nil, in which case every call
// uses the pattern fallback directly.
func NewEngine(neural *NeuralStrategy, fallback *PatternStrategy, logger *zap.Logger) *Engine {
	return &Engine{
		neural:   neural,
		fallback: fallback,
		logger:   logger,
	}
}

// Classify produces the per-label probability vector for doc against the
// label space of the given model version, with the version's calibration
// deltas applied. The vector is indexed by version.LabelSpace.
func (e *Engine) Classify(ctx context.Context, doc *models.SourceDocument, version *models.ModelVersion) []float64 {
	labelSpace := version.LabelSpace

	probs, strategy := e.run(ctx, doc, labelSpace)
	e.logger.Debug("Classification complete",
		zap.String("strategy", strategy),
		zap.String("contract_hash", doc.Hash),
		zap.String("model_version", version.Version))

	return applyCalibration(probs, labelSpace, version.Calibration)
}

func (e *Engine) run(ctx context.Context, doc *models.SourceDocument, labelSpace *models.LabelSpace) ([]float64, string) {
	if e.neural != nil && e.neural.Available(ctx) {
		probs, err := e.neural.Classify(ctx, doc, labelSpace)
		if err == nil {
			return probs, e.neural.Name()
		}
		e.logger.Warn("Primary classifier failed, using pattern fallback", zap.Error(err))
	}

	// The fallback never returns an error.
	probs, _ := e.fallback.Classify(ctx, doc, labelSpace)
	return probs, e.fallback.Name()
}

// applyCalibration adds the per-label feedback deltas and clamps to [0,1].
func applyCalibration(probs []float64, labelSpace *models.LabelSpace, calibration map[string]float64) []float64 {
	if len(calibration) == 0 {
		return probs
	}
	for i, label := range labelSpace.Labels {
		delta, ok := calibration[label]
		if !ok {
			continue
		}
		p := probs[i] + delta
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		probs[i] = p
	}
	return probs
}
