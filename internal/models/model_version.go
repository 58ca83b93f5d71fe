package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TrainingEvent records one learning-loop update in a version's history.
type TrainingEvent struct {
	Version         string    `json:"version"`
	Timestamp       time.Time `json:"timestamp"`
	FeedbackCount   int       `json:"feedback_count"`
	AverageAccuracy float64   `json:"average_accuracy"`
}

// ModelVersion is an immutable, versioned snapshot of classifier state. The
// Calibration map holds per-label probability deltas accumulated from
// community feedback; they are added to raw classifier output before
// thresholding. Exactly one version is "current" at any time and publishing a
// new one is an atomic pointer swap, so in-flight analyses keep the version
// they started with.
type ModelVersion struct {
	Version         string             `json:"version"`
	LabelSpace      *LabelSpace        `json:"label_space"`
	Calibration     map[string]float64 `json:"calibration"`
	TrainingHistory []TrainingEvent    `json:"training_history"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NextPatch derives the successor version: same label space, calibration as
// given, patch number incremented and the training event appended.
func (mv *ModelVersion) NextPatch(calibration map[string]float64, event TrainingEvent) (*ModelVersion, error) {
	next, err := BumpPatch(mv.Version)
	if err != nil {
		return nil, err
	}
	event.Version = next

	history := make([]TrainingEvent, 0, len(mv.TrainingHistory)+1)
	history = append(history, mv.TrainingHistory...)
	history = append(history, event)

	return &ModelVersion{
		Version:         next,
		LabelSpace:      mv.LabelSpace,
		Calibration:     calibration,
		TrainingHistory: history,
		CreatedAt:       event.Timestamp,
	}, nil
}

// BumpPatch increments the patch component of a semantic version triple.
func BumpPatch(version string) (string, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid model version %q", version)
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", fmt.Errorf("invalid patch number in version %q", version)
	}
	return fmt.Sprintf("%s.%s.%d", parts[0], parts[1], patch+1), nil
}
