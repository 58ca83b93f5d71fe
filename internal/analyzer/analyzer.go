package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/classifier"
	"github.com/Shrirang13/SecuRizz/internal/evidence"
	"github.com/Shrirang13/SecuRizz/internal/gatekeeper"
	"github.com/Shrirang13/SecuRizz/internal/models"
	"github.com/Shrirang13/SecuRizz/internal/modelstore"
	"github.com/Shrirang13/SecuRizz/internal/risk"
)

// ValidationError is the only caller-visible failure of Analyze. It carries
// the specific rejection reasons from the gatekeeper.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "input rejected: " + strings.Join(e.Reasons, "; ")
}

// Analyzer runs the full analysis pipeline: gatekeeper, inference engine,
// evidence extraction, risk aggregation. It is stateless and safe for
// concurrent use; the only shared state is the read-only current-version
// snapshot taken at the start of each call.
type Analyzer struct {
	detector *gatekeeper.Detector
	engine   *classifier.Engine
	store    *modelstore.Store
	logger   *zap.Logger
}

// NewAnalyzer wires the pipeline stages together.
func NewAnalyzer(detector *gatekeeper.Detector, engine *classifier.Engine, store *modelstore.Store, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		detector: detector,
		engine:   engine,
		store:    store,
		logger:   logger,
	}
}

// Analyze turns raw source text into an analysis report. It returns a
// *ValidationError when the gatekeeper rejects the input; no other error
// escapes the pipeline.
func (a *Analyzer) Analyze(ctx context.Context, sourceText string) (*models.AnalysisReport, error) {
	validation := a.detector.Validate(sourceText)
	if !validation.IsValid {
		a.logger.Info("Input rejected by gatekeeper", zap.Strings("reasons", validation.Errors))
		return nil, &ValidationError{Reasons: validation.Errors}
	}

	doc := models.NewSourceDocument(
		sourceText,
		validation.Language,
		validation.IsCode,
		validation.CodeConfidence,
		validation.LanguageConfidence,
	)

	// Snapshot the model version once; the whole analysis runs against it
	// even if the learning loop publishes a newer version meanwhile.
	version := a.store.Current()

	probs := a.engine.Classify(ctx, doc, version)
	findings := evidence.Extract(doc, version.LabelSpace, probs)
	score := risk.Score(findings)

	report := &models.AnalysisReport{
		ID:             uuid.New().String(),
		SourceHash:     doc.Hash,
		Findings:       findings,
		RiskScore:      score,
		Summary:        risk.Summary(findings, score),
		FixSuggestions: evidence.FixSuggestionsFor(findings),
		ModelVersion:   version.Version,
		Language:       doc.Language,
		CreatedAt:      time.Now().UTC(),
	}

	a.logger.Info("Analysis complete",
		zap.String("contract_hash", report.SourceHash),
		zap.String("language", report.Language),
		zap.Int("findings", len(report.Findings)),
		zap.Float64("risk_score", report.RiskScore),
		zap.String("model_version", report.ModelVersion))

	return report, nil
}
