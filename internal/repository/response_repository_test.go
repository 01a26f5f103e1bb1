package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"pir-integrity/internal/models"
)

func newMockDB(t *testing.T) (*ResponseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open stub database: %v", err)
	}
	return NewResponseRepository(db), mock, func() { db.Close() }
}

func TestResponseUpsert(t *testing.T) {
	repo, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO responses")).
		WithArgs(uint(1), uint(2), 4, nil, 3500).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	resp := &models.Response{
		AssessmentID:   1,
		QuestionID:     2,
		ResponseValue:  4,
		ResponseTimeMs: 3500,
	}
	if err := repo.Upsert(resp); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if resp.ID != 7 {
		t.Errorf("Expected returned id 7, got %d", resp.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestResponseUpsertWithCode(t *testing.T) {
	repo, mock, cleanup := newMockDB(t)
	defer cleanup()

	code := "B"
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO responses")).
		WithArgs(uint(1), uint(8), 1, "B", 8000).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	resp := &models.Response{
		AssessmentID:   1,
		QuestionID:     8,
		ResponseValue:  1,
		ResponseCode:   &code,
		ResponseTimeMs: 8000,
	}
	if err := repo.Upsert(resp); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestResponseGetByAssessment(t *testing.T) {
	repo, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "assessment_id", "question_id", "response_value", "response_code", "response_time_ms", "created_at"}).
		AddRow(1, 1, 3, 5, nil, 4200, now).
		AddRow(2, 1, 1, 2, "A", 3100, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM responses r")).
		WithArgs(uint(1)).
		WillReturnRows(rows)

	responses, err := repo.GetByAssessment(1)
	if err != nil {
		t.Fatalf("GetByAssessment failed: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(responses))
	}
	// rows come back in question display order, not insertion order
	if responses[0].QuestionID != 3 || responses[1].QuestionID != 1 {
		t.Errorf("Unexpected ordering: %d, %d", responses[0].QuestionID, responses[1].QuestionID)
	}
	if responses[1].ResponseCode == nil || *responses[1].ResponseCode != "A" {
		t.Error("Expected response code preserved")
	}
}

func TestResponseCountByAssessment(t *testing.T) {
	repo, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM responses")).
		WithArgs(uint(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(24))

	count, err := repo.CountByAssessment(5)
	if err != nil {
		t.Fatalf("CountByAssessment failed: %v", err)
	}
	if count != 24 {
		t.Errorf("Expected count 24, got %d", count)
	}
}

func TestResponseAnsweredQuestionIDs(t *testing.T) {
	repo, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT question_id FROM responses")).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"question_id"}).AddRow(1).AddRow(4))

	answered, err := repo.AnsweredQuestionIDs(1)
	if err != nil {
		t.Fatalf("AnsweredQuestionIDs failed: %v", err)
	}
	if !answered[1] || !answered[4] || answered[2] {
		t.Errorf("Unexpected answered set: %v", answered)
	}
}

func TestResponseUpsertError(t *testing.T) {
	repo, mock, cleanup := newMockDB(t)
	defer cleanup()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO responses")).
		WillReturnError(dbErr)

	err := repo.Upsert(&models.Response{AssessmentID: 1, QuestionID: 1, ResponseValue: 3})
	if !errors.Is(err, dbErr) {
		t.Fatalf("Expected database error passed through, got %v", err)
	}
}
