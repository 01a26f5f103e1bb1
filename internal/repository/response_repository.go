package repository

import (
	"database/sql"

	"pir-integrity/internal/models"
)

// ResponseRepository handles database operations for test responses
type ResponseRepository struct {
	db *sql.DB
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Upsert stores a response, replacing any earlier answer to the same question.
// Last write wins so a test-taker can revise an answer before submission.
func (r *ResponseRepository) Upsert(response *models.Response) error {
	query := `
		INSERT INTO responses (assessment_id, question_id, response_value, response_code, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assessment_id, question_id) DO UPDATE
		SET response_value = EXCLUDED.response_value,
		    response_code = EXCLUDED.response_code,
		    response_time_ms = EXCLUDED.response_time_ms,
		    created_at = CURRENT_TIMESTAMP
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		query,
		response.AssessmentID,
		response.QuestionID,
		response.ResponseValue,
		response.ResponseCode,
		response.ResponseTimeMs,
	).Scan(&response.ID, &response.CreatedAt)
}

// GetByAssessment retrieves all responses for an assessment ordered by the
// question display order, which the pattern analyzer depends on.
func (r *ResponseRepository) GetByAssessment(assessmentID uint) ([]models.Response, error) {
	query := `
		SELECT r.id, r.assessment_id, r.question_id, r.response_value, r.response_code,
		       r.response_time_ms, r.created_at
		FROM responses r
		JOIN questions q ON r.question_id = q.id
		WHERE r.assessment_id = $1
		ORDER BY q.display_order, q.id
	`
	rows, err := r.db.Query(query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var resp models.Response
		err := rows.Scan(
			&resp.ID,
			&resp.AssessmentID,
			&resp.QuestionID,
			&resp.ResponseValue,
			&resp.ResponseCode,
			&resp.ResponseTimeMs,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	return responses, rows.Err()
}

// CountByAssessment counts distinct answered questions for an assessment
func (r *ResponseRepository) CountByAssessment(assessmentID uint) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM responses WHERE assessment_id = $1`
	err := r.db.QueryRow(query, assessmentID).Scan(&count)
	return count, err
}

// AnsweredQuestionIDs returns the ids of all answered questions
func (r *ResponseRepository) AnsweredQuestionIDs(assessmentID uint) (map[uint]bool, error) {
	query := `SELECT question_id FROM responses WHERE assessment_id = $1`
	rows, err := r.db.Query(query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answered := make(map[uint]bool)
	for rows.Next() {
		var questionID uint
		if err := rows.Scan(&questionID); err != nil {
			return nil, err
		}
		answered[questionID] = true
	}

	return answered, rows.Err()
}

// DeleteByAssessment removes all responses for an assessment. Only used by
// administrative cleanup of abandoned sessions.
func (r *ResponseRepository) DeleteByAssessment(assessmentID uint) error {
	_, err := r.db.Exec(`DELETE FROM responses WHERE assessment_id = $1`, assessmentID)
	return err
}
