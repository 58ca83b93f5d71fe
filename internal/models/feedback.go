package models

import "time"

// FeedbackItem is one community correction of an analysis. Items are created
// on submission, enqueued for the learning loop, marked processed exactly
// once and then retained for audit history.
type FeedbackItem struct {
	ID              string    `json:"id" db:"id"`
	ContractHash    string    `json:"contract_hash" db:"contract_hash"`
	PredictedLabels []string  `json:"predicted_vulnerabilities"`
	ActualLabels    []string  `json:"actual_vulnerabilities"`
	AccuracyRating  float64   `json:"accuracy_rating" db:"accuracy_rating"`
	ContributorID   string    `json:"contributor_id" db:"contributor_id"`
	Comments        string    `json:"comments,omitempty" db:"comments"`
	Timestamp       time.Time `json:"timestamp" db:"created_at"`
	Processed       bool      `json:"processed" db:"processed"`
}
