package evidence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

func TestExtractLinesFirstSeenOrder(t *testing.T) {
	source := strings.Join([]string{
		"contract Vault {",               // 1
		"    function pay(address a) {", // 2
		"        a.call(\"\");",          // 3
		"    }",                          // 4
		"    function out(address b) {", // 5
		"        b.transfer(1);",         // 6
		"    }",                          // 7
		"}",                              // 8
	}, "\n")

	lines := ExtractLines(source, "reentrancy")
	assert.Equal(t, []int{3, 6}, lines)
}

func TestExtractLinesCappedAtFive(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "target%d.call(\"\");\n", i)
	}

	lines := ExtractLines(b.String(), "reentrancy")
	assert.Equal(t, []int{1, 2, 3, 4, 5}, lines)
}

func TestExtractLinesUnknownLabel(t *testing.T) {
	assert.Nil(t, ExtractLines("a.call(\"\");", "no_such_label"))
}

func TestConfidenceFormula(t *testing.T) {
	tests := []struct {
		probability float64
		lines       int
		expected    float64
	}{
		{0.5, 0, 0.5},
		{0.5, 3, 0.56},
		{0.95, 5, 1.0}, // capped
		{0.99, 1, 1.0}, // capped
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.expected, Confidence(tc.probability, tc.lines), 1e-9)
	}
}

func TestSeverityBands(t *testing.T) {
	tests := []struct {
		probability float64
		severity    models.Severity
	}{
		{0.81, models.SeverityCritical},
		{0.8, models.SeverityHigh},
		{0.61, models.SeverityHigh},
		{0.6, models.SeverityMedium},
		{0.41, models.SeverityMedium},
		{0.4, models.SeverityLow},
		{0.31, models.SeverityLow},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.severity, SeverityForProbability(tc.probability), "p=%f", tc.probability)
	}
}

func TestExtractThresholdAndOrdering(t *testing.T) {
	ls := models.DefaultLabelSpace()
	doc := models.NewSourceDocument("selfdestruct(payable(owner));", "solidity", true, 1.0, 1.0)

	probs := make([]float64, ls.Len())
	selfIdx, err := ls.Index("unsafe_selfdestruct")
	require.NoError(t, err)
	reIdx, err := ls.Index("reentrancy")
	require.NoError(t, err)
	probs[selfIdx] = 0.7
	probs[reIdx] = 0.3 // at threshold, excluded

	findings := Extract(doc, ls, probs)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "unsafe_selfdestruct", f.Label)
	assert.Equal(t, 0.7, f.Probability)
	assert.Equal(t, models.SeverityHigh, f.Severity)
	assert.Equal(t, []int{1}, f.EvidenceLines)
	assert.InDelta(t, 0.72, f.Confidence, 1e-9)
}

func TestExtractEmptyEvidenceKeepsConfidence(t *testing.T) {
	ls := models.DefaultLabelSpace()
	// Source without any front_running evidence line.
	doc := models.NewSourceDocument("contract A {}", "solidity", true, 1.0, 1.0)

	probs := make([]float64, ls.Len())
	idx, err := ls.Index("front_running")
	require.NoError(t, err)
	probs[idx] = 0.5

	findings := Extract(doc, ls, probs)
	require.Len(t, findings, 1)
	assert.Empty(t, findings[0].EvidenceLines)
	assert.Equal(t, 0.5, findings[0].Confidence)
}

func TestFixSuggestions(t *testing.T) {
	s := FixSuggestionFor("reentrancy")
	assert.Equal(t, "Use checks-effects-interactions pattern", s.Description)
	assert.Equal(t, models.SeverityCritical, s.Severity)

	unknown := FixSuggestionFor("brand_new_label")
	assert.Equal(t, models.SeverityUnknown, unknown.Severity)
	assert.Contains(t, unknown.Description, "security")

	table := FixSuggestionsFor([]models.Finding{
		{Label: "tx_origin"},
		{Label: "delegatecall"},
	})
	assert.Len(t, table, 2)
	assert.Equal(t, models.SeverityMedium, table["tx_origin"].Severity)
}
