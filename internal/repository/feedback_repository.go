package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// FeedbackRepository persists processed feedback for audit history and backs
// the contributor trust signals.
type FeedbackRepository interface {
	SaveProcessed(item *models.FeedbackItem) error
	GetByContributor(contributorID string, limit int) ([]*models.FeedbackItem, error)
	HistoricalAccuracy(contributorID string) float64
	StakeSignal(contributorID string) float64
}

type feedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) FeedbackRepository {
	return &feedbackRepository{db: db, logger: logger}
}

// SaveProcessed records a drained feedback item. Called by the learning loop
// after the item was marked processed.
func (r *feedbackRepository) SaveProcessed(item *models.FeedbackItem) error {
	predicted, err := json.Marshal(item.PredictedLabels)
	if err != nil {
		return fmt.Errorf("failed to marshal predicted labels: %w", err)
	}
	actual, err := json.Marshal(item.ActualLabels)
	if err != nil {
		return fmt.Errorf("failed to marshal actual labels: %w", err)
	}

	query := `
		INSERT INTO feedback (
			id, contract_hash, predicted_labels, actual_labels,
			accuracy_rating, contributor_id, comments, processed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET processed = EXCLUDED.processed
	`
	_, err = r.db.Exec(
		query,
		item.ID,
		item.ContractHash,
		predicted,
		actual,
		item.AccuracyRating,
		item.ContributorID,
		item.Comments,
		item.Processed,
		item.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

// GetByContributor returns a contributor's feedback history, newest first.
func (r *feedbackRepository) GetByContributor(contributorID string, limit int) ([]*models.FeedbackItem, error) {
	query := `
		SELECT id, contract_hash, predicted_labels, actual_labels,
		       accuracy_rating, contributor_id, comments, processed, created_at
		FROM feedback
		WHERE contributor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Queryx(query, contributorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.FeedbackItem
	for rows.Next() {
		var item models.FeedbackItem
		var predicted, actual []byte
		if err := rows.Scan(
			&item.ID, &item.ContractHash, &predicted, &actual,
			&item.AccuracyRating, &item.ContributorID, &item.Comments,
			&item.Processed, &item.Timestamp,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(predicted, &item.PredictedLabels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal predicted labels: %w", err)
		}
		if err := json.Unmarshal(actual, &item.ActualLabels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal actual labels: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// HistoricalAccuracy derives a contributor's reputation from their processed
// feedback: mean accuracy rating scaled to [0,1]. Unknown contributors get a
// neutral 0.5.
func (r *feedbackRepository) HistoricalAccuracy(contributorID string) float64 {
	var avg sql.NullFloat64
	query := `SELECT AVG(accuracy_rating) FROM feedback WHERE contributor_id = $1 AND processed = true`
	if err := r.db.Get(&avg, query, contributorID); err != nil {
		r.logger.Warn("Failed to query historical accuracy", zap.String("contributor_id", contributorID), zap.Error(err))
		return 0.5
	}
	if !avg.Valid {
		return 0.5
	}
	return avg.Float64 / 10.0
}

// StakeSignal returns the contributor's recorded stake, or 0 when unknown.
func (r *feedbackRepository) StakeSignal(contributorID string) float64 {
	var stake float64
	query := `SELECT stake_signal FROM contributors WHERE id = $1`
	err := r.db.Get(&stake, query, contributorID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("Failed to query stake signal", zap.String("contributor_id", contributorID), zap.Error(err))
		}
		return 0
	}
	return stake
}
