package evidence

import (
	"regexp"
	"strings"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// ReportingThreshold is the minimum probability for a label to become a
// finding.
const ReportingThreshold = 0.3

// maxEvidenceLines caps the evidence line list per finding.
const maxEvidenceLines = 5

// evidenceBonus is the per-line confidence bonus; evidence never decreases
// confidence and the total is capped at 1.0.
const evidenceBonus = 0.02

// Per-label evidence patterns. These are stricter than the fallback
// classifier's match patterns: they locate the specific lines that support a
// finding rather than deciding whether a label applies at all.
var evidencePatternSources = map[string][]string{
	"reentrancy": {
		`(?i)\.call\s*\(`,
		`(?i)\.call\{value:`,
		`(?i)\.send\s*\(`,
		`(?i)\.transfer\s*\(`,
		`(?i)msg\.sender\.call\s*\(`,
		`(?i)\.delegatecall\s*\(`,
	},
	"integer_overflow": {
		`(?i)\+\s*[^=]`,
		`(?i)\*\s*[^=]`,
		`(?i)\.add\s*\(`,
		`(?i)\.mul\s*\(`,
		`(?i)unchecked\s*\{`,
	},
	"integer_underflow": {
		`(?i)-\s*[^=-]`,
		`(?i)\.sub\s*\(`,
	},
	"access_control": {
		`(?i)require\s*\(`,
		`(?i)onlyOwner`,
		`(?i)msg\.sender`,
		`(?i)\.only\w+`,
	},
	"tx_origin": {
		`(?i)tx\.origin`,
		`(?i)origin\s*==`,
	},
	"timestamp_dependency": {
		`(?i)block\.timestamp`,
		`(?i)now\s*[<>=]`,
		`(?i)timestamp\s*[<>=]`,
	},
	"unchecked_calls": {
		`(?i)\.send\s*\(`,
		`(?i)\.transfer\s*\(`,
		`(?i)\.call\s*\(`,
	},
	"unsafe_selfdestruct": {
		`(?i)selfdestruct\s*\(`,
		`(?i)suicide\s*\(`,
	},
	"delegatecall": {
		`(?i)\.delegatecall\s*\(`,
	},
	"front_running": {
		`(?i)tx\.gasprice`,
		`(?i)block\.number`,
	},
}

var evidencePatterns = compileEvidencePatterns()

func compileEvidencePatterns() map[string][]*regexp.Regexp {
	compiled := make(map[string][]*regexp.Regexp, len(evidencePatternSources))
	for label, sources := range evidencePatternSources {
		patterns := make([]*regexp.Regexp, 0, len(sources))
		for _, src := range sources {
			patterns = append(patterns, regexp.MustCompile(src))
		}
		compiled[label] = patterns
	}
	return compiled
}

// Extract turns a probability vector into findings: for every label above the
// reporting threshold it locates supporting lines, derives confidence and
// assigns the severity tier. Pure and side-effect-free.
func Extract(doc *models.SourceDocument, labelSpace *models.LabelSpace, probs []float64) []models.Finding {
	findings := make([]models.Finding, 0)
	for i, p := range probs {
		if i >= labelSpace.Len() {
			break
		}
		if p <= ReportingThreshold {
			continue
		}
		label := labelSpace.Label(i)
		lines := ExtractLines(doc.Text, label)
		findings = append(findings, models.Finding{
			Label:         label,
			Probability:   p,
			Confidence:    Confidence(p, len(lines)),
			Severity:      SeverityForProbability(p),
			EvidenceLines: lines,
		})
	}
	return findings
}

// ExtractLines returns up to 5 line numbers (1-based, first-seen order) whose
// content matches the label's evidence patterns.
func ExtractLines(source, label string) []int {
	patterns, ok := evidencePatterns[label]
	if !ok {
		return nil
	}

	lines := strings.Split(source, "\n")
	suspicious := make([]int, 0, maxEvidenceLines)
	for i, line := range lines {
		for _, pattern := range patterns {
			if pattern.MatchString(line) {
				suspicious = append(suspicious, i+1)
				break
			}
		}
		if len(suspicious) == maxEvidenceLines {
			break
		}
	}
	return suspicious
}

// Confidence computes min(1.0, probability + 0.02 * evidenceLineCount).
func Confidence(probability float64, evidenceLineCount int) float64 {
	confidence := probability + evidenceBonus*float64(evidenceLineCount)
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

// SeverityForProbability assigns the severity tier by probability band.
func SeverityForProbability(p float64) models.Severity {
	switch {
	case p > 0.8:
		return models.SeverityCritical
	case p > 0.6:
		return models.SeverityHigh
	case p > 0.4:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
