package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/analyzer"
	"github.com/Shrirang13/SecuRizz/internal/anchor_client"
	"github.com/Shrirang13/SecuRizz/internal/repository"
)

// AnalysisHandler handles contract analysis requests.
type AnalysisHandler struct {
	analyzer     *analyzer.Analyzer
	reportRepo   repository.ReportRepository
	anchorClient *anchor_client.Client
	logger       *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler. reportRepo and
// anchorClient are optional collaborators; a nil value disables that step.
func NewAnalysisHandler(a *analyzer.Analyzer, reportRepo repository.ReportRepository, anchorClient *anchor_client.Client, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:     a,
		reportRepo:   reportRepo,
		anchorClient: anchorClient,
		logger:       logger,
	}
}

// AnalyzeRequest is the analysis request body.
type AnalyzeRequest struct {
	SourceCode   string `json:"source_code" binding:"required"`
	ContractName string `json:"contract_name,omitempty"`
}

// Analyze runs the full analysis pipeline.
// POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), req.SourceCode)
	if err != nil {
		var validationErr *analyzer.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "input rejected",
				"reasons": validationErr.Reasons,
			})
			return
		}
		h.logger.Error("Analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	if h.reportRepo != nil {
		if err := h.reportRepo.SaveReport(report); err != nil {
			h.logger.Error("Failed to persist report", zap.String("id", report.ID), zap.Error(err))
		}
	}

	// Anchor the proof triple asynchronously; the caller does not wait on
	// the external collaborator.
	if h.anchorClient != nil {
		go func(contractHash, reportHash string, riskScore float64) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if _, err := h.anchorClient.SubmitProof(ctx, contractHash, reportHash, riskScore); err != nil {
				h.logger.Error("Failed to anchor audit proof",
					zap.String("contract_hash", contractHash), zap.Error(err))
			}
		}(report.SourceHash, report.ReportHash(), report.RiskScore)
	}

	c.JSON(http.StatusOK, report)
}

// GetAllReports returns the most recent reports.
// GET /api/reports
func (h *AnalysisHandler) GetAllReports(c *gin.Context) {
	if h.reportRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report storage is not configured"})
		return
	}

	reports, err := h.reportRepo.GetAllReports(100)
	if err != nil {
		h.logger.Error("Failed to get reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

// GetReportByHash returns the latest report for a contract hash.
// GET /api/reports/:contract_hash
func (h *AnalysisHandler) GetReportByHash(c *gin.Context) {
	if h.reportRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report storage is not configured"})
		return
	}

	contractHash := c.Param("contract_hash")

	report, err := h.reportRepo.GetReportByHash(contractHash)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}
