package repository

import (
	"database/sql"
	"time"

	"pir-integrity/internal/models"
)

// AssessmentRepository handles database operations for assessments
type AssessmentRepository struct {
	db *sql.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create creates a new assessment in draft status
func (r *AssessmentRepository) Create(assessment *models.Assessment) error {
	query := `
		INSERT INTO assessments (employee_id, status, started_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		assessment.EmployeeID,
		assessment.Status,
		assessment.StartedAt,
	).Scan(&assessment.ID, &assessment.CreatedAt, &assessment.UpdatedAt)
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(assessmentID uint) (*models.Assessment, error) {
	var a models.Assessment
	query := `
		SELECT id, employee_id, status, overall_score, risk_level, moral_level,
		       started_at, completed_at, created_at, updated_at
		FROM assessments
		WHERE id = $1
	`
	err := r.db.QueryRow(query, assessmentID).Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Status,
		&a.OverallScore,
		&a.RiskLevel,
		&a.MoralLevel,
		&a.StartedAt,
		&a.CompletedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmployeeID retrieves all assessments for an employee, newest first
func (r *AssessmentRepository) GetByEmployeeID(employeeID uint) ([]models.Assessment, error) {
	query := `
		SELECT id, employee_id, status, overall_score, risk_level, moral_level,
		       started_at, completed_at, created_at, updated_at
		FROM assessments
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`
	return r.queryAssessments(query, employeeID)
}

// GetByStatus retrieves all assessments in the given status
func (r *AssessmentRepository) GetByStatus(status models.AssessmentStatus) ([]models.Assessment, error) {
	query := `
		SELECT id, employee_id, status, overall_score, risk_level, moral_level,
		       started_at, completed_at, created_at, updated_at
		FROM assessments
		WHERE status = $1
		ORDER BY created_at DESC
	`
	return r.queryAssessments(query, string(status))
}

// HasOpenAssessment reports whether the employee already has a draft or
// in_progress assessment
func (r *AssessmentRepository) HasOpenAssessment(employeeID uint) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM assessments
		WHERE employee_id = $1 AND status IN ('draft', 'in_progress')
	`
	err := r.db.QueryRow(query, employeeID).Scan(&count)
	return count > 0, err
}

// UpdateStatus transitions an assessment to a new status
func (r *AssessmentRepository) UpdateStatus(assessmentID uint, status models.AssessmentStatus) error {
	query := `
		UPDATE assessments
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	result, err := r.db.Exec(query, status, assessmentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkInProgress transitions a draft assessment to in_progress and stamps
// started_at. A no-op for assessments already in_progress.
func (r *AssessmentRepository) MarkInProgress(assessmentID uint, startedAt time.Time) error {
	query := `
		UPDATE assessments
		SET status = $1, started_at = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND status = $4
	`
	_, err := r.db.Exec(query, models.StatusInProgress, startedAt, assessmentID, models.StatusDraft)
	return err
}

// ListInactiveSince returns in_progress assessments whose latest response
// activity (or start, when unanswered) is older than the cutoff. Used by the
// abandonment sweeper.
func (r *AssessmentRepository) ListInactiveSince(cutoff time.Time) ([]models.Assessment, error) {
	query := `
		SELECT a.id, a.employee_id, a.status, a.overall_score, a.risk_level, a.moral_level,
		       a.started_at, a.completed_at, a.created_at, a.updated_at
		FROM assessments a
		WHERE a.status = 'in_progress'
		  AND COALESCE(
		        (SELECT MAX(r.created_at) FROM responses r WHERE r.assessment_id = a.id),
		        a.started_at
		      ) < $1
		ORDER BY a.id
	`
	return r.queryAssessments(query, cutoff)
}

func (r *AssessmentRepository) queryAssessments(query string, args ...interface{}) ([]models.Assessment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.Status,
			&a.OverallScore,
			&a.RiskLevel,
			&a.MoralLevel,
			&a.StartedAt,
			&a.CompletedAt,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}
