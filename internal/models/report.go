package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Severity is the tier assigned to a finding or fix suggestion.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// SourceDocument is an immutable submitted source blob plus the fields the
// gatekeeper computed for it. It lives for one analysis request only.
type SourceDocument struct {
	Text               string
	Hash               string
	Language           string
	IsCode             bool
	CodeConfidence     float64
	LanguageConfidence float64
}

// NewSourceDocument hashes the text and attaches the gatekeeper results.
func NewSourceDocument(text, language string, isCode bool, codeConfidence, languageConfidence float64) *SourceDocument {
	return &SourceDocument{
		Text:               text,
		Hash:               SHA256Hex(text),
		Language:           language,
		IsCode:             isCode,
		CodeConfidence:     codeConfidence,
		LanguageConfidence: languageConfidence,
	}
}

// SHA256Hex returns the hex-encoded SHA-256 digest of text.
func SHA256Hex(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Finding is one labeled vulnerability surfaced in a report.
type Finding struct {
	Label         string   `json:"vulnerability" db:"label"`
	Probability   float64  `json:"probability" db:"probability"`
	Confidence    float64  `json:"confidence" db:"confidence"`
	Severity      Severity `json:"severity" db:"severity"`
	EvidenceLines []int    `json:"lines" db:"-"`
}

// FixSuggestion describes how to remediate one vulnerability class.
type FixSuggestion struct {
	Description string   `json:"description"`
	CodeExample string   `json:"code_example"`
	Severity    Severity `json:"severity"`
}

// AnalysisReport is the result of one analysis. It is created once per call,
// owned by the caller and never mutated afterwards.
type AnalysisReport struct {
	ID             string                   `json:"id" db:"id"`
	SourceHash     string                   `json:"contract_hash" db:"contract_hash"`
	Findings       []Finding                `json:"predictions"`
	RiskScore      float64                  `json:"risk_score" db:"risk_score"`
	Summary        string                   `json:"ai_summary" db:"summary"`
	FixSuggestions map[string]FixSuggestion `json:"fix_suggestions"`
	ModelVersion   string                   `json:"model_version" db:"model_version"`
	Language       string                   `json:"language" db:"language"`
	CreatedAt      time.Time                `json:"created_at" db:"created_at"`
}

// ReportHash returns the hash anchored on-chain together with the source hash
// and risk score. It covers the finding labels and the risk score, so two
// reports with the same findings hash identically.
func (r *AnalysisReport) ReportHash() string {
	content := fmt.Sprintf("%s|%s|%.4f", r.SourceHash, r.ModelVersion, r.RiskScore)
	for _, f := range r.Findings {
		content += "|" + f.Label
	}
	return SHA256Hex(content)
}
