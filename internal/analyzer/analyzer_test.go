package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/classifier"
	"github.com/Shrirang13/SecuRizz/internal/gatekeeper"
	"github.com/Shrirang13/SecuRizz/internal/modelstore"
)

const vulnerableContract = `pragma solidity ^0.8.0;
contract Wallet {
    address owner;
    function withdraw(uint256 amount) public {
        require(tx.origin == owner);
        msg.sender.call{value: amount}("");
    }
}`

// newTestAnalyzer builds a pipeline with no neural strategy so only the
// pattern fallback runs. The model store bootstraps version 1.0.0 in a temp
// directory.
func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	logger := zap.NewNop()

	store, err := modelstore.Open(t.TempDir(), logger)
	require.NoError(t, err)

	engine := classifier.NewEngine(nil, classifier.NewPatternStrategy(logger), logger)
	return NewAnalyzer(gatekeeper.NewDetector(logger), engine, store, logger)
}

func TestAnalyzeShortInputRejected(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(context.Background(), "contract A {}")
	assert.Nil(t, report)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Reasons)
	assert.Contains(t, verr.Reasons[0], "too short")
}

func TestAnalyzeProseRejected(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.Analyze(context.Background(), "this is a long description of my weekend plans and it has no code in it at all")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestAnalyzeVulnerableContract(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(context.Background(), vulnerableContract)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Len(t, report.SourceHash, 64)
	assert.Equal(t, "solidity", report.Language)
	assert.Equal(t, "1.0.0", report.ModelVersion)
	assert.NotEmpty(t, report.Summary)

	labels := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		labels = append(labels, f.Label)
		assert.GreaterOrEqual(t, f.Probability, 0.0)
		assert.LessOrEqual(t, f.Probability, 1.0)
	}
	assert.Contains(t, labels, "tx_origin")
	assert.Contains(t, labels, "reentrancy")

	assert.Greater(t, report.RiskScore, 0.0)
	assert.LessOrEqual(t, report.RiskScore, 1.0)

	for _, f := range report.Findings {
		_, ok := report.FixSuggestions[f.Label]
		assert.True(t, ok, "missing fix suggestion for %s", f.Label)
	}
}

func TestAnalyzeDeterministicForSameInput(t *testing.T) {
	a := newTestAnalyzer(t)

	first, err := a.Analyze(context.Background(), vulnerableContract)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), vulnerableContract)
	require.NoError(t, err)

	// Identical input against the same model version yields the same hash,
	// findings and score; only the report ID and timestamp differ.
	assert.Equal(t, first.SourceHash, second.SourceHash)
	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.Summary, second.Summary)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestReportHashStable(t *testing.T) {
	a := newTestAnalyzer(t)

	first, err := a.Analyze(context.Background(), vulnerableContract)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), vulnerableContract)
	require.NoError(t, err)

	assert.Equal(t, first.ReportHash(), second.ReportHash())
}
