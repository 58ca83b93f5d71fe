package feedback

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// spamKeywords flag low-effort or automated submissions.
var spamKeywords = []string{"spam", "fake", "bot", "automated", "test"}

// Rejection reasons surfaced to the collaborator for logging.
const (
	ReasonMissingContractHash = "missing contract_hash"
	ReasonMissingPredicted    = "missing predicted_vulnerabilities"
	ReasonMissingActual       = "missing actual_vulnerabilities"
	ReasonMissingRating       = "missing accuracy_rating"
	ReasonInvalidRating       = "accuracy_rating must be between 0 and 10"
	ReasonSpam                = "feedback flagged as spam"
	ReasonQueueFull           = "feedback queue is full"
)

// Submission is raw community feedback before validation. AccuracyRating is a
// pointer so a missing field can be told apart from a zero rating.
type Submission struct {
	ContractHash    string   `json:"contract_hash"`
	PredictedLabels []string `json:"predicted_vulnerabilities"`
	ActualLabels    []string `json:"actual_vulnerabilities"`
	AccuracyRating  *float64 `json:"accuracy_rating"`
	ContributorID   string   `json:"contributor_id"`
	Comments        string   `json:"comments,omitempty"`
}

// Intake validates community feedback and admits it to the learning queue.
type Intake struct {
	queue  *Queue
	logger *zap.Logger
}

// NewIntake creates the feedback intake in front of the given queue.
func NewIntake(queue *Queue, logger *zap.Logger) *Intake {
	return &Intake{queue: queue, logger: logger}
}

// Ingest validates the submission and enqueues it. The boolean result is the
// caller-visible accept/reject decision; reason explains a rejection. Items
// failing validation or spam checks never enter the queue.
func (in *Intake) Ingest(sub *Submission) (bool, string) {
	if reason, ok := validate(sub); !ok {
		in.logger.Info("Feedback rejected", zap.String("reason", reason))
		return false, reason
	}

	item := &models.FeedbackItem{
		ID:              uuid.New().String(),
		ContractHash:    sub.ContractHash,
		PredictedLabels: sub.PredictedLabels,
		ActualLabels:    sub.ActualLabels,
		AccuracyRating:  *sub.AccuracyRating,
		ContributorID:   sub.ContributorID,
		Comments:        sub.Comments,
		Timestamp:       time.Now().UTC(),
		Processed:       false,
	}

	if err := in.queue.Enqueue(item); err != nil {
		in.logger.Warn("Feedback queue full, rejecting submission",
			zap.String("contributor_id", item.ContributorID))
		return false, ReasonQueueFull
	}

	in.logger.Info("Feedback accepted",
		zap.String("id", item.ID),
		zap.String("contract_hash", item.ContractHash),
		zap.Int("queue_depth", in.queue.Depth()))
	return true, ""
}

// validate checks required fields, rating range and spam heuristics.
func validate(sub *Submission) (string, bool) {
	if sub == nil || sub.ContractHash == "" {
		return ReasonMissingContractHash, false
	}
	if sub.PredictedLabels == nil {
		return ReasonMissingPredicted, false
	}
	if sub.ActualLabels == nil {
		return ReasonMissingActual, false
	}
	if sub.AccuracyRating == nil {
		return ReasonMissingRating, false
	}
	if *sub.AccuracyRating < 0 || *sub.AccuracyRating > 10 {
		return ReasonInvalidRating, false
	}
	if isSpam(sub.Comments) {
		return ReasonSpam, false
	}
	return "", true
}

// isSpam applies the repeated-character and keyword heuristics to free text.
func isSpam(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	for c := 'a'; c <= 'z'; c++ {
		if strings.Contains(lower, strings.Repeat(string(c), 5)) {
			return true
		}
	}
	for _, keyword := range spamKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
