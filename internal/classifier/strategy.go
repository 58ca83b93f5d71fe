package classifier

import (
	"context"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// Strategy is one way of producing a per-label probability vector for a
// source document. Implementations must index the returned vector against the
// given label space.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, doc *models.SourceDocument, labelSpace *models.LabelSpace) ([]float64, error)
}
