package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"pir-integrity/internal/models"
)

// AnalysisRepository handles database operations for pattern analysis results
type AnalysisRepository struct {
	db *sql.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save stores the analysis result for an assessment. Recomputation
// overwrites the prior row; the result is idempotent, not additive.
func (r *AnalysisRepository) Save(result *models.PatternAnalysisResult) error {
	flags := make([]string, len(result.Flags))
	for i, f := range result.Flags {
		flags[i] = string(f)
	}

	query := `
		INSERT INTO pattern_analysis_results
			(assessment_id, avg_response_time_ms, std_dev_response_time_ms, consecutive_identical_max, flags)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assessment_id) DO UPDATE
		SET avg_response_time_ms = EXCLUDED.avg_response_time_ms,
		    std_dev_response_time_ms = EXCLUDED.std_dev_response_time_ms,
		    consecutive_identical_max = EXCLUDED.consecutive_identical_max,
		    flags = EXCLUDED.flags,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		result.AssessmentID,
		result.AvgResponseTimeMs,
		result.StdDevResponseTimeMs,
		result.ConsecutiveIdenticalMax,
		pq.Array(flags),
	).Scan(&result.CreatedAt, &result.UpdatedAt)
}

// GetByAssessment retrieves the analysis result for an assessment
func (r *AnalysisRepository) GetByAssessment(assessmentID uint) (*models.PatternAnalysisResult, error) {
	var result models.PatternAnalysisResult
	var flags pq.StringArray

	query := `
		SELECT assessment_id, avg_response_time_ms, std_dev_response_time_ms,
		       consecutive_identical_max, flags, created_at, updated_at
		FROM pattern_analysis_results
		WHERE assessment_id = $1
	`
	err := r.db.QueryRow(query, assessmentID).Scan(
		&result.AssessmentID,
		&result.AvgResponseTimeMs,
		&result.StdDevResponseTimeMs,
		&result.ConsecutiveIdenticalMax,
		&flags,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result.Flags = make([]models.AnomalyFlag, len(flags))
	for i, f := range flags {
		result.Flags[i] = models.AnomalyFlag(f)
	}

	return &result, nil
}
