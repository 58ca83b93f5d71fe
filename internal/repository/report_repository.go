package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// ReportRepository handles database operations for analysis reports.
type ReportRepository interface {
	SaveReport(report *models.AnalysisReport) error
	GetReportByHash(contractHash string) (*models.AnalysisReport, error)
	GetAllReports(limit int) ([]*models.AnalysisReport, error)
}

type reportRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *sqlx.DB, logger *zap.Logger) ReportRepository {
	return &reportRepository{db: db, logger: logger}
}

// reportRow is the flat database representation of a report; findings and fix
// suggestions are stored as JSONB.
type reportRow struct {
	ID             string    `db:"id"`
	ContractHash   string    `db:"contract_hash"`
	ReportHash     string    `db:"report_hash"`
	RiskScore      float64   `db:"risk_score"`
	Summary        string    `db:"summary"`
	ModelVersion   string    `db:"model_version"`
	Language       string    `db:"language"`
	Findings       []byte    `db:"findings"`
	FixSuggestions []byte    `db:"fix_suggestions"`
	CreatedAt      time.Time `db:"created_at"`
}

// SaveReport persists a completed analysis report.
func (r *reportRepository) SaveReport(report *models.AnalysisReport) error {
	findings, err := json.Marshal(report.Findings)
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	suggestions, err := json.Marshal(report.FixSuggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal fix suggestions: %w", err)
	}

	query := `
		INSERT INTO reports (
			id, contract_hash, report_hash, risk_score, summary,
			model_version, language, findings, fix_suggestions, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(
		query,
		report.ID,
		report.SourceHash,
		report.ReportHash(),
		report.RiskScore,
		report.Summary,
		report.ModelVersion,
		report.Language,
		findings,
		suggestions,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReportByHash returns the most recent report for a contract hash.
func (r *reportRepository) GetReportByHash(contractHash string) (*models.AnalysisReport, error) {
	query := `
		SELECT id, contract_hash, report_hash, risk_score, summary,
		       model_version, language, findings, fix_suggestions, created_at
		FROM reports
		WHERE contract_hash = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var row reportRow
	if err := r.db.Get(&row, query, contractHash); err != nil {
		return nil, err
	}
	return rowToReport(&row)
}

// GetAllReports returns the most recent reports, newest first.
func (r *reportRepository) GetAllReports(limit int) ([]*models.AnalysisReport, error) {
	query := `
		SELECT id, contract_hash, report_hash, risk_score, summary,
		       model_version, language, findings, fix_suggestions, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`
	var rows []reportRow
	if err := r.db.Select(&rows, query, limit); err != nil {
		return nil, err
	}

	reports := make([]*models.AnalysisReport, 0, len(rows))
	for i := range rows {
		report, err := rowToReport(&rows[i])
		if err != nil {
			r.logger.Warn("Skipping undecodable report row", zap.String("id", rows[i].ID), zap.Error(err))
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func rowToReport(row *reportRow) (*models.AnalysisReport, error) {
	report := &models.AnalysisReport{
		ID:           row.ID,
		SourceHash:   row.ContractHash,
		RiskScore:    row.RiskScore,
		Summary:      row.Summary,
		ModelVersion: row.ModelVersion,
		Language:     row.Language,
		CreatedAt:    row.CreatedAt,
	}
	if err := json.Unmarshal(row.Findings, &report.Findings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal findings: %w", err)
	}
	if len(row.FixSuggestions) > 0 {
		if err := json.Unmarshal(row.FixSuggestions, &report.FixSuggestions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fix suggestions: %w", err)
		}
	}
	return report, nil
}
