package testutil

import (
	"database/sql"
	"testing"

	"pir-integrity/internal/models"
)

// Fixtures holds test data on top of the seeded question catalog
type Fixtures struct {
	DB        *sql.DB
	Questions []models.Question
}

// SetupFixtures loads the seeded catalog so tests can reference questions by
// position rather than hard-coded ids
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{DB: db}

	rows, err := db.Query(`
		SELECT id, category_id, type, reverse_scored, is_cross_validation, display_order
		FROM questions
		ORDER BY display_order, id
	`)
	if err != nil {
		t.Fatalf("Failed to load questions: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Type, &q.ReverseScored, &q.IsCrossValidation, &q.DisplayOrder); err != nil {
			t.Fatalf("Failed to scan question: %v", err)
		}
		fixtures.Questions = append(fixtures.Questions, q)
	}

	return fixtures
}

// CreateAssessment creates an assessment in the given status
func (f *Fixtures) CreateAssessment(t *testing.T, employeeID uint, status models.AssessmentStatus) *models.Assessment {
	t.Helper()

	var assessment models.Assessment
	err := f.DB.QueryRow(`
		INSERT INTO assessments (employee_id, status)
		VALUES ($1, $2)
		RETURNING id, employee_id, status, started_at, created_at, updated_at
	`, employeeID, status).Scan(
		&assessment.ID, &assessment.EmployeeID, &assessment.Status,
		&assessment.StartedAt, &assessment.CreatedAt, &assessment.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create assessment: %v", err)
	}

	return &assessment
}

// SubmitResponse stores one raw response row
func (f *Fixtures) SubmitResponse(t *testing.T, assessmentID, questionID uint, value int, code *string, timeMs int) {
	t.Helper()

	_, err := f.DB.Exec(`
		INSERT INTO responses (assessment_id, question_id, response_value, response_code, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assessment_id, question_id) DO UPDATE
		SET response_value = EXCLUDED.response_value,
		    response_code = EXCLUDED.response_code,
		    response_time_ms = EXCLUDED.response_time_ms
	`, assessmentID, questionID, value, code, timeMs)
	if err != nil {
		t.Fatalf("Failed to submit response for question %d: %v", questionID, err)
	}
}

// AnswerAllNeutral answers every catalog question with a neutral value.
// Likert questions get 3, everything else its first option or "true".
func (f *Fixtures) AnswerAllNeutral(t *testing.T, assessmentID uint, timeMs int) {
	t.Helper()

	for _, q := range f.Questions {
		switch q.Type {
		case models.QuestionTypeLikert:
			f.SubmitResponse(t, assessmentID, q.ID, 3, nil, timeMs)
		case models.QuestionTypeTrueFalse:
			code := "true"
			f.SubmitResponse(t, assessmentID, q.ID, 1, &code, timeMs)
		default:
			code := "A"
			f.SubmitResponse(t, assessmentID, q.ID, 0, &code, timeMs)
		}
	}
}
