package risk

import (
	"fmt"
	"strings"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// Severity weights for the risk score. CRITICAL findings count in full, HIGH
// slightly less, MEDIUM and LOW share the lowest weight.
const (
	weightCritical = 1.0
	weightHigh     = 0.8
	weightDefault  = 0.6
)

// Score computes the severity-weighted mean of finding probabilities.
//
// With no findings the score is 0.0, while a single low-confidence finding
// contributes its full weighted probability. The discontinuity between those
// two cases is intentional.
func Score(findings []models.Finding) float64 {
	if len(findings) == 0 {
		return 0.0
	}

	total := 0.0
	for _, f := range findings {
		total += f.Probability * severityWeight(f.Severity)
	}
	score := total / float64(len(findings))
	if score > 1.0 {
		return 1.0
	}
	return score
}

func severityWeight(s models.Severity) float64 {
	switch s {
	case models.SeverityCritical:
		return weightCritical
	case models.SeverityHigh:
		return weightHigh
	default:
		return weightDefault
	}
}

// Summary renders the template-driven natural-language summary: overall
// severity band, up to three critical/high labels, and a medium-findings
// count when nothing worse was found.
func Summary(findings []models.Finding, riskScore float64) string {
	var severity string
	switch {
	case riskScore > 0.8:
		severity = "HIGH RISK"
	case riskScore > 0.5:
		severity = "MEDIUM RISK"
	default:
		severity = "LOW RISK"
	}

	var highRisk, mediumRisk []models.Finding
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityCritical, models.SeverityHigh:
			highRisk = append(highRisk, f)
		case models.SeverityMedium:
			mediumRisk = append(mediumRisk, f)
		}
	}

	parts := []string{
		fmt.Sprintf("Contract analysis shows %s with %d critical vulnerabilities.", severity, len(highRisk)),
	}

	if len(highRisk) > 0 {
		names := make([]string, 0, 3)
		for _, f := range highRisk {
			names = append(names, f.Label)
			if len(names) == 3 {
				break
			}
		}
		parts = append(parts, fmt.Sprintf("Critical issues: %s.", strings.Join(names, ", ")))
	} else if len(mediumRisk) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d moderate security concerns requiring review.", len(mediumRisk)))
	}

	return strings.Join(parts, " ")
}
