package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pir-integrity/internal/models"
)

// ErrIndicatorsExist is returned when a scoring commit finds indicator rows
// already persisted for the assessment. The calculator is run-once.
var ErrIndicatorsExist = errors.New("ethics indicators already exist for assessment")

// IndicatorRepository handles database operations for ethics indicators and
// the terminal scoring commit
type IndicatorRepository struct {
	db *sql.DB
}

// NewIndicatorRepository creates a new indicator repository
func NewIndicatorRepository(db *sql.DB) *IndicatorRepository {
	return &IndicatorRepository{db: db}
}

// GetByAssessment retrieves all indicator rows for an assessment
func (r *IndicatorRepository) GetByAssessment(assessmentID uint) ([]models.EthicsIndicator, error) {
	query := `
		SELECT assessment_id, dimension_id, score, risk_level, created_at
		FROM ethics_indicators
		WHERE assessment_id = $1
		ORDER BY dimension_id
	`
	rows, err := r.db.Query(query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indicators []models.EthicsIndicator
	for rows.Next() {
		var ind models.EthicsIndicator
		err := rows.Scan(
			&ind.AssessmentID,
			&ind.DimensionID,
			&ind.Score,
			&ind.RiskLevel,
			&ind.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, ind)
	}

	return indicators, rows.Err()
}

// ExistsForAssessment reports whether any indicator rows exist
func (r *IndicatorRepository) ExistsForAssessment(assessmentID uint) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM ethics_indicators WHERE assessment_id = $1`
	err := r.db.QueryRow(query, assessmentID).Scan(&count)
	return count > 0, err
}

// SaveScoringResult persists the terminal scoring outcome atomically: all
// indicator rows plus the assessment's derived fields and completed status
// land in one transaction, or none of them do. The assessment row is locked
// for the duration so a concurrent duplicate attempt serializes behind this
// one and fails with ErrIndicatorsExist instead of double-writing.
func (r *IndicatorRepository) SaveScoringResult(result *models.ScoringResult, completedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin scoring transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var status models.AssessmentStatus
	err = tx.QueryRow(
		`SELECT status FROM assessments WHERE id = $1 FOR UPDATE`,
		result.AssessmentID,
	).Scan(&status)
	if err != nil {
		return fmt.Errorf("failed to lock assessment: %w", err)
	}
	if status == models.StatusCompleted {
		return ErrIndicatorsExist
	}

	// Re-check under the row lock: a concurrent scorer may have committed
	// between the service's precondition check and this transaction.
	var count int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM ethics_indicators WHERE assessment_id = $1`,
		result.AssessmentID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check existing indicators: %w", err)
	}
	if count > 0 {
		return ErrIndicatorsExist
	}

	insert := `
		INSERT INTO ethics_indicators (assessment_id, dimension_id, score, risk_level)
		VALUES ($1, $2, $3, $4)
	`
	for _, dim := range result.DimensionScores {
		if _, err := tx.Exec(insert, result.AssessmentID, dim.DimensionID, dim.Score, dim.RiskLevel); err != nil {
			return fmt.Errorf("failed to insert indicator for dimension %d: %w", dim.DimensionID, err)
		}
	}

	update := `
		UPDATE assessments
		SET status = $1, overall_score = $2, risk_level = $3, moral_level = $4,
		    completed_at = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`
	_, err = tx.Exec(
		update,
		models.StatusCompleted,
		result.OverallScore,
		result.RiskLevel,
		result.MoralLevel,
		completedAt,
		result.AssessmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scoring result: %w", err)
	}

	return nil
}

// ResetScoring deletes indicator rows and clears the assessment's derived
// fields, returning it to in_progress. This is the explicit reset required
// before an assessment may be re-scored.
func (r *IndicatorRepository) ResetScoring(assessmentID uint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM ethics_indicators WHERE assessment_id = $1`, assessmentID); err != nil {
		return fmt.Errorf("failed to delete indicators: %w", err)
	}

	update := `
		UPDATE assessments
		SET status = $1, overall_score = NULL, risk_level = NULL, moral_level = NULL,
		    completed_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	if _, err := tx.Exec(update, models.StatusInProgress, assessmentID); err != nil {
		return fmt.Errorf("failed to reset assessment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	return nil
}
