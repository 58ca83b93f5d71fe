package classifier

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// patternRule associates one label with its match patterns and a fixed base
// probability. Labels strongly correlated with unauthorized state mutation or
// unsafe external calls carry a higher base probability than weaker
// correlative signals such as timestamp reads.
type patternRule struct {
	label    string
	base     float64
	patterns []*regexp.Regexp
	requires []*regexp.Regexp
}

var patternRuleSources = []struct {
	label    string
	base     float64
	patterns []string
	// requires must all match in addition to any of patterns.
	requires []string
}{
	{
		// tx.origin is only dangerous alongside msg.sender-based auth;
		// a bare tx.origin read is not flagged.
		label: "tx_origin",
		base:  0.8,
		patterns: []string{
			`tx\.origin`,
		},
		requires: []string{
			`msg\.sender`,
		},
	},
	{
		label: "reentrancy",
		base:  0.75,
		patterns: []string{
			`\.call\s*\(`,
			`\.call\{value:`,
			`msg\.sender\.call`,
		},
	},
	{
		label: "unsafe_selfdestruct",
		base:  0.7,
		patterns: []string{
			`selfdestruct\s*\(`,
			`suicide\s*\(`,
		},
	},
	{
		label: "delegatecall",
		base:  0.6,
		patterns: []string{
			`\.delegatecall\s*\(`,
		},
	},
	{
		label: "unchecked_calls",
		base:  0.55,
		patterns: []string{
			`\.send\s*\(`,
			`\.transfer\s*\(`,
		},
	},
	{
		label: "timestamp_dependency",
		base:  0.5,
		patterns: []string{
			`block\.timestamp`,
			`now\s*[<>=]`,
		},
	},
	{
		label: "integer_overflow",
		base:  0.45,
		patterns: []string{
			`unchecked\s*\{`,
			`\.add\s*\(`,
			`\.mul\s*\(`,
		},
	},
	{
		label: "integer_underflow",
		base:  0.45,
		patterns: []string{
			`\.sub\s*\(`,
		},
	},
	{
		label: "access_control",
		base:  0.4,
		patterns: []string{
			`onlyOwner`,
			`require\s*\(\s*msg\.sender`,
			`owner\s*==`,
		},
	},
	{
		label: "front_running",
		base:  0.4,
		patterns: []string{
			`tx\.gasprice`,
			`block\.number`,
		},
	},
}

// PatternStrategy is the deterministic fallback classifier. It always
// produces a result: any internal failure degrades to the zero vector rather
// than propagating.
type PatternStrategy struct {
	rules  []patternRule
	logger *zap.Logger
}

// NewPatternStrategy compiles the pattern table once.
func NewPatternStrategy(logger *zap.Logger) *PatternStrategy {
	rules := make([]patternRule, 0, len(patternRuleSources))
	for _, src := range patternRuleSources {
		compiled := make([]*regexp.Regexp, 0, len(src.patterns))
		for _, p := range src.patterns {
			compiled = append(compiled, regexp.MustCompile(p))
		}
		requires := make([]*regexp.Regexp, 0, len(src.requires))
		for _, p := range src.requires {
			requires = append(requires, regexp.MustCompile(p))
		}
		rules = append(rules, patternRule{label: src.label, base: src.base, patterns: compiled, requires: requires})
	}
	return &PatternStrategy{rules: rules, logger: logger}
}

// Name identifies the strategy.
func (s *PatternStrategy) Name() string {
	return "pattern"
}

// Classify scans the source against each rule. A label is assigned its base
// probability once, no matter how many of its patterns match. This method
// never returns a non-nil error.
func (s *PatternStrategy) Classify(_ context.Context, doc *models.SourceDocument, labelSpace *models.LabelSpace) ([]float64, error) {
	probs := make([]float64, labelSpace.Len())
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return probs, nil
	}

	for _, rule := range s.rules {
		idx, err := labelSpace.Index(rule.label)
		if err != nil {
			// Rule for a label outside this label space; skip it.
			s.logger.Debug("Pattern rule not in label space", zap.String("label", rule.label))
			continue
		}
		if !matchesAll(rule.requires, doc.Text) {
			continue
		}
		for _, pattern := range rule.patterns {
			if pattern.MatchString(doc.Text) {
				probs[idx] = rule.base
				break
			}
		}
	}
	return probs, nil
}

func matchesAll(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if !p.MatchString(text) {
			return false
		}
	}
	return true
}
