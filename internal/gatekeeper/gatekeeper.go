package gatekeeper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MinSourceLength is the minimum input length for a meaningful analysis.
const MinSourceLength = 50

// codeThreshold is the indicator score above which input counts as code.
const codeThreshold = 0.3

// languageThreshold is the minimum fraction of language patterns that must
// match before a language is reported instead of "unknown".
const languageThreshold = 0.2

// ValidationResult is the gatekeeper verdict for one submission. When IsValid
// is false, Errors holds the specific reasons and downstream stages must not
// run.
type ValidationResult struct {
	IsValid            bool     `json:"is_valid"`
	IsCode             bool     `json:"is_code"`
	Language           string   `json:"language"`
	LanguageConfidence float64  `json:"confidence"`
	CodeConfidence     float64  `json:"code_confidence"`
	Errors             []string `json:"errors"`
}

// Detector decides whether input is code at all and, if so, which language it
// is. It is a cheap circuit breaker in front of the classifier and never calls
// it.
type Detector struct {
	languagePatterns map[string][]*regexp.Regexp
	codeIndicators   []*regexp.Regexp
	keywordPattern   *regexp.Regexp
	bracketPattern   *regexp.Regexp
	operatorPattern  *regexp.Regexp
	logger           *zap.Logger
}

var languagePatternSources = map[string][]string{
	"solidity": {
		`(?i)pragma\s+solidity`,
		`(?i)contract\s+\w+`,
		`(?i)function\s+\w+\s*\([^)]*\)`,
		`(?i)mapping\s*\([^)]*\)\s*[a-zA-Z_][a-zA-Z0-9_]*`,
		`(?i)msg\.sender`,
		`(?i)block\.timestamp`,
		`(?i)require\s*\(`,
		`(?i)emit\s+\w+`,
		`(?i)payable`,
		`(?i)address\s+`,
		`(?i)uint\d*`,
		`(?i)bytes\d*`,
	},
	"vyper": {
		`(?i)@external`,
		`(?i)@view`,
		`(?i)@pure`,
		`(?i)@payable`,
		`(?i)@nonreentrant`,
		`(?i)def\s+\w+\s*\([^)]*\)`,
		`(?i)struct\s+\w+:`,
		`(?i)event\s+\w+`,
		`(?i)@public`,
		`(?i)@private`,
	},
	"rust": {
		`(?i)use\s+anchor_lang`,
		`(?i)#\[program\]`,
		`(?i)#\[derive\(Accounts\)\]`,
		`(?i)pub\s+fn\s+\w+`,
		`(?i)struct\s+\w+\s*\{`,
		`(?i)impl\s+\w+`,
		`(?i)let\s+\w+:`,
		`(?i)->\s*Result<\(\)>`,
		`(?i)ctx:\s*Context<`,
		`(?i)#\[account\]`,
	},
	"javascript": {
		`(?i)function\s+\w+\s*\([^)]*\)\s*\{`,
		`(?i)const\s+\w+\s*=`,
		`(?i)let\s+\w+\s*=`,
		`(?i)var\s+\w+\s*=`,
		`(?i)console\.log`,
		`(?i)require\s*\(`,
		`(?i)module\.exports`,
		`(?i)async\s+function`,
		`(?i)await\s+`,
		`(?i)\.then\s*\(`,
	},
	"python": {
		`(?i)def\s+\w+\s*\([^)]*\):`,
		`(?i)import\s+\w+`,
		`(?i)from\s+\w+\s+import`,
		`(?i)class\s+\w+`,
		`(?i)if\s+__name__\s*==\s*["']__main__["']`,
		`(?i)print\s*\(`,
		`(?i)@\w+`,
		`(?i)async\s+def`,
		`(?i)yield\s+`,
		`(?i)lambda\s+`,
	},
}

// Generic syntactic markers used to separate code from prose.
var codeIndicatorSources = []string{
	`[{}();]`,
	`=\s*[^=]`,
	`if\s*\(`,
	`for\s*\(`,
	`while\s*\(`,
	`function\s+`,
	`class\s+`,
	`import\s+`,
	`#include`,
	`#define`,
	`//`,
	`/\*`,
	`->`,
	`::`,
	`\.`,
	`\[`,
}

// NewDetector compiles the pattern tables once at startup.
func NewDetector(logger *zap.Logger) *Detector {
	d := &Detector{
		languagePatterns: make(map[string][]*regexp.Regexp, len(languagePatternSources)),
		codeIndicators:   make([]*regexp.Regexp, 0, len(codeIndicatorSources)),
		keywordPattern:   regexp.MustCompile(`(?i)\b(function|class|def|if|for|while|import|const|let|var)\b`),
		bracketPattern:   regexp.MustCompile(`[{}();]`),
		operatorPattern:  regexp.MustCompile(`[=+\-*/%<>!&|]`),
		logger:           logger,
	}
	for lang, sources := range languagePatternSources {
		compiled := make([]*regexp.Regexp, 0, len(sources))
		for _, src := range sources {
			compiled = append(compiled, regexp.MustCompile(src))
		}
		d.languagePatterns[lang] = compiled
	}
	for _, src := range codeIndicatorSources {
		d.codeIndicators = append(d.codeIndicators, regexp.MustCompile(src))
	}
	return d
}

// Validate runs the full gatekeeping pass: code check, language detection,
// minimum length.
func (d *Detector) Validate(text string) ValidationResult {
	result := ValidationResult{
		Language: "unknown",
		Errors:   []string{},
	}

	if strings.TrimSpace(text) == "" {
		result.Errors = append(result.Errors, "Empty input provided")
		return result
	}

	// Length is checked before anything else so every short input is
	// rejected with a length-related reason. Counted in runes, not bytes.
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinSourceLength {
		result.Errors = append(result.Errors, "Code too short for meaningful analysis")
		return result
	}

	isCode, codeConfidence := d.IsCode(text)
	result.IsCode = isCode
	result.CodeConfidence = codeConfidence

	if !isCode {
		result.Errors = append(result.Errors, "Input does not appear to be code")
		return result
	}

	language, langConfidence := d.DetectLanguage(text)
	result.Language = language
	result.LanguageConfidence = langConfidence

	if language == "unknown" {
		result.Errors = append(result.Errors, "Could not detect programming language")
		return result
	}

	result.IsValid = true
	return result
}

// IsCode scores the text against generic syntactic markers and reports
// whether it looks like code at all.
func (d *Detector) IsCode(text string) (bool, float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, 0.0
	}

	found := 0
	for _, pattern := range d.codeIndicators {
		if pattern.MatchString(text) {
			found++
		}
	}
	probability := float64(found) / float64(len(d.codeIndicators))

	hasBrackets := d.bracketPattern.MatchString(text)
	hasKeywords := d.keywordPattern.MatchString(text)
	hasOperators := d.operatorPattern.MatchString(text)

	// Bonus when strong indicators co-occur.
	if hasBrackets && hasKeywords {
		probability += 0.3
	}
	if hasOperators && hasKeywords {
		probability += 0.2
	}

	if probability > 1.0 {
		probability = 1.0
	}
	return probability > codeThreshold, probability
}

// DetectLanguage scores each candidate language by the fraction of its
// patterns that match and returns the argmax, or "unknown" below threshold.
func (d *Detector) DetectLanguage(text string) (string, float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "unknown", 0.0
	}

	bestLang := "unknown"
	bestScore := 0.0
	for lang, patterns := range d.languagePatterns {
		matched := 0
		for _, pattern := range patterns {
			if pattern.MatchString(text) {
				matched++
			}
		}
		score := float64(matched) / float64(len(patterns))
		if score > bestScore || (score == bestScore && lang < bestLang) {
			bestLang = lang
			bestScore = score
		}
	}

	if bestScore > languageThreshold {
		return bestLang, bestScore
	}
	return "unknown", 0.0
}
