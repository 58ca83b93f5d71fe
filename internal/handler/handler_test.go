package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/analyzer"
	"github.com/Shrirang13/SecuRizz/internal/classifier"
	"github.com/Shrirang13/SecuRizz/internal/feedback"
	"github.com/Shrirang13/SecuRizz/internal/gatekeeper"
	"github.com/Shrirang13/SecuRizz/internal/models"
	"github.com/Shrirang13/SecuRizz/internal/modelstore"
)

const sampleContract = `pragma solidity ^0.8.0;
contract Wallet {
    address owner;
    function withdraw(uint256 amount) public {
        require(tx.origin == owner);
        msg.sender.call{value: amount}("");
    }
}`

func newAnalysisRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store, err := modelstore.Open(t.TempDir(), logger)
	require.NoError(t, err)

	engine := classifier.NewEngine(nil, classifier.NewPatternStrategy(logger), logger)
	a := analyzer.NewAnalyzer(gatekeeper.NewDetector(logger), engine, store, logger)
	h := NewAnalysisHandler(a, nil, nil, logger)

	router := gin.New()
	router.POST("/api/analyze", h.Analyze)
	router.GET("/api/reports", h.GetAllReports)
	router.GET("/api/reports/:contract_hash", h.GetReportByHash)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newAnalysisRouter(t)

	w := postJSON(t, router, "/api/analyze", gin.H{"source_code": sampleContract})
	require.Equal(t, http.StatusOK, w.Code)

	var report models.AnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "solidity", report.Language)
	assert.NotEmpty(t, report.Findings)
	assert.Greater(t, report.RiskScore, 0.0)
}

func TestAnalyzeEndpointRejectsShortInput(t *testing.T) {
	router := newAnalysisRouter(t)

	w := postJSON(t, router, "/api/analyze", gin.H{"source_code": "contract A {}"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Reasons []string `json:"reasons"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "input rejected", resp.Error)
	assert.NotEmpty(t, resp.Reasons)
}

func TestAnalyzeEndpointMissingBody(t *testing.T) {
	router := newAnalysisRouter(t)

	w := postJSON(t, router, "/api/analyze", gin.H{"contract_name": "Wallet"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportEndpointsWithoutStorageConfigured(t *testing.T) {
	router := newAnalysisRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/a1b2c3", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFeedbackEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	queue := feedback.NewQueue(4)
	h := NewFeedbackHandler(feedback.NewIntake(queue, logger), logger)

	router := gin.New()
	router.POST("/api/feedback", h.Submit)

	w := postJSON(t, router, "/api/feedback", gin.H{
		"contract_hash":             "a1b2c3",
		"predicted_vulnerabilities": []string{"reentrancy"},
		"actual_vulnerabilities":    []string{"reentrancy", "tx_origin"},
		"accuracy_rating":           8,
		"contributor_id":            "contributor-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Accepted bool   `json:"accepted"`
		Reason   string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.Equal(t, 1, queue.Depth())

	// Missing rating is rejected with the specific reason, not treated as 0.
	w = postJSON(t, router, "/api/feedback", gin.H{
		"contract_hash":             "a1b2c3",
		"predicted_vulnerabilities": []string{"reentrancy"},
		"actual_vulnerabilities":    []string{"reentrancy"},
		"contributor_id":            "contributor-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
	assert.Equal(t, "missing accuracy_rating", resp.Reason)
	assert.Equal(t, 1, queue.Depth())
}
