package learning

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/feedback"
	"github.com/Shrirang13/SecuRizz/internal/models"
	"github.com/Shrirang13/SecuRizz/internal/modelstore"
)

// Clock abstracts time so tests can advance it deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// History records processed feedback for audit, outside the hot path. A nil
// History is allowed.
type History interface {
	SaveProcessed(item *models.FeedbackItem) error
}

// Config holds the learning parameters.
type Config struct {
	MinFeedbackCount int
	BatchSize        int
	UpdateInterval   time.Duration
	LearningRate     float64
	// MaxCalibration bounds the per-label delta the loop may accumulate, so
	// feedback tunes probabilities without being able to invert them.
	MaxCalibration float64
}

// DefaultConfig returns the standard learning parameters: minimum 10 items
// per batch, batches of 32, model update every 5 minutes.
func DefaultConfig() Config {
	return Config{
		MinFeedbackCount: 10,
		BatchSize:        32,
		UpdateInterval:   5 * time.Minute,
		LearningRate:     0.001,
		MaxCalibration:   0.2,
	}
}

// Stats is a snapshot of the loop state for the stats endpoint.
type Stats struct {
	ModelVersion     string    `json:"model_version"`
	QueueDepth       int       `json:"queue_size"`
	ProcessedCount   int       `json:"processed_count"`
	BatchesProcessed int       `json:"batches_processed"`
	LastUpdate       time.Time `json:"last_update"`
	LastAccuracy     float64   `json:"last_average_accuracy"`
	LearningRate     float64   `json:"learning_rate"`
	UpdateInterval   string    `json:"update_interval"`
}

// Loop is the continuous-learning worker. It cooperates with the rest of the
// system only through the feedback queue and the model store's current
// pointer; all other state is owned by the loop goroutine.
type Loop struct {
	queue      *feedback.Queue
	reputation feedback.ReputationSource
	store      *modelstore.Store
	history    History
	clock      Clock
	cfg        Config
	logger     *zap.Logger

	// runMu serializes whole iterations. The supervisor ticker and manual
	// admin triggers both call RunOnce; without this the model pointer
	// would have two writers.
	runMu sync.Mutex

	// Loop-owned learning state. The mutex only guards Stats reads from
	// other goroutines.
	mu               sync.Mutex
	pending          map[string]float64
	lastUpdate       time.Time
	processedCount   int
	batchesProcessed int
	lastAccuracy     float64
}

// NewLoop builds the learning loop.
func NewLoop(queue *feedback.Queue, reputation feedback.ReputationSource, store *modelstore.Store, history History, clock Clock, cfg Config, logger *zap.Logger) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		queue:      queue,
		reputation: reputation,
		store:      store,
		history:    history,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
		pending:    make(map[string]float64),
		lastUpdate: clock.Now(),
	}
}

// RunOnce executes one loop iteration: drain and process a feedback batch if
// enough is queued, then publish a model update if the interval has elapsed.
// Iterations are serialized, so a manual trigger and the supervisor ticker
// never publish concurrently. Any failure inside an iteration is recovered
// and logged; the loop is never fatal to the service.
func (l *Loop) RunOnce() {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Learning iteration panicked", zap.Any("panic", r))
		}
	}()

	if l.queue.Depth() >= l.cfg.MinFeedbackCount {
		if err := l.processBatch(); err != nil {
			l.logger.Error("Feedback processing failed", zap.Error(err))
		}
	}

	now := l.clock.Now()
	if now.Sub(l.lastUpdate) >= l.cfg.UpdateInterval {
		if err := l.publishUpdate(now); err != nil {
			l.logger.Error("Model update failed", zap.Error(err))
		}
	}
}

// processBatch drains up to BatchSize items, aggregates weighted metrics and
// accumulates calibration deltas. Every drained item is marked processed
// regardless of update success, guaranteeing at-most-once consumption.
func (l *Loop) processBatch() error {
	batch := l.queue.Drain(l.cfg.BatchSize)
	if len(batch) == 0 {
		return nil
	}

	// Mark first so a failure below cannot cause reprocessing.
	defer func() {
		for _, item := range batch {
			item.Processed = true
			if l.history != nil {
				if err := l.history.SaveProcessed(item); err != nil {
					l.logger.Warn("Failed to persist processed feedback",
						zap.String("id", item.ID), zap.Error(err))
				}
			}
		}
		l.mu.Lock()
		l.processedCount += len(batch)
		l.batchesProcessed++
		l.mu.Unlock()
	}()

	metrics := ComputeMetrics(batch)
	weights := feedback.BatchWeights(batch, l.reputation)

	l.applyWeightedUpdate(batch, weights)

	l.mu.Lock()
	l.lastAccuracy = metrics.AverageAccuracy
	l.mu.Unlock()

	l.logger.Info("Processed feedback batch",
		zap.Int("items", len(batch)),
		zap.Float64("average_accuracy", metrics.AverageAccuracy),
		zap.Float64("precision", metrics.Precision()),
		zap.Float64("recall", metrics.Recall()))
	return nil
}

// applyWeightedUpdate folds each item into the pending calibration deltas:
// labels the model missed are pushed up, labels it hallucinated are pushed
// down, each scaled by learning rate and normalized contributor weight.
func (l *Loop) applyWeightedUpdate(batch []*models.FeedbackItem, weights []float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range batch {
		w := weights[i]
		predicted := toSet(item.PredictedLabels)
		actual := toSet(item.ActualLabels)

		for label := range actual {
			if _, ok := predicted[label]; !ok {
				l.pending[label] = clamp(l.pending[label]+l.cfg.LearningRate*w*float64(len(batch)), l.cfg.MaxCalibration)
			}
		}
		for label := range predicted {
			if _, ok := actual[label]; !ok {
				l.pending[label] = clamp(l.pending[label]-l.cfg.LearningRate*w*float64(len(batch)), l.cfg.MaxCalibration)
			}
		}
	}
}

// publishUpdate builds the successor model version from the current one plus
// the accumulated deltas, persists it and atomically swaps the current
// pointer. Readers that started against the old version finish against it.
func (l *Loop) publishUpdate(now time.Time) error {
	current := l.store.Current()
	if current == nil {
		return fmt.Errorf("no current model version")
	}

	l.mu.Lock()
	calibration := make(map[string]float64, len(current.Calibration))
	for label, delta := range current.Calibration {
		calibration[label] = delta
	}
	for label, delta := range l.pending {
		calibration[label] = clamp(calibration[label]+delta, l.cfg.MaxCalibration)
	}
	processed := l.processedCount
	accuracy := l.lastAccuracy
	l.mu.Unlock()

	next, err := current.NextPatch(calibration, models.TrainingEvent{
		Timestamp:       now,
		FeedbackCount:   processed,
		AverageAccuracy: accuracy,
	})
	if err != nil {
		return err
	}

	if err := l.store.Publish(next); err != nil {
		return fmt.Errorf("failed to publish model version %s: %w", next.Version, err)
	}

	l.mu.Lock()
	l.pending = make(map[string]float64)
	l.lastUpdate = now
	l.mu.Unlock()

	l.logger.Info("Published model update",
		zap.String("version", next.Version),
		zap.Int("feedback_count", processed))
	return nil
}

// Stats returns a snapshot for the stats endpoint.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	version := ""
	if mv := l.store.Current(); mv != nil {
		version = mv.Version
	}
	return Stats{
		ModelVersion:     version,
		QueueDepth:       l.queue.Depth(),
		ProcessedCount:   l.processedCount,
		BatchesProcessed: l.batchesProcessed,
		LastUpdate:       l.lastUpdate,
		LastAccuracy:     l.lastAccuracy,
		LearningRate:     l.cfg.LearningRate,
		UpdateInterval:   l.cfg.UpdateInterval.String(),
	}
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
