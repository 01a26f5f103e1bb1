package service

import (
	"fmt"
	"log/slog"
	"time"

	"pir-integrity/internal/catalog"
	"pir-integrity/internal/models"
)

// ResponseStore is the persistence surface the response service needs
type ResponseStore interface {
	Upsert(response *models.Response) error
	CountByAssessment(assessmentID uint) (int, error)
	AnsweredQuestionIDs(assessmentID uint) (map[uint]bool, error)
}

// AssessmentStore is the assessment persistence surface shared by services
type AssessmentStore interface {
	Create(assessment *models.Assessment) error
	GetByID(assessmentID uint) (*models.Assessment, error)
	GetByEmployeeID(employeeID uint) ([]models.Assessment, error)
	HasOpenAssessment(employeeID uint) (bool, error)
	MarkInProgress(assessmentID uint, startedAt time.Time) error
}

// ResponseService records test-taker answers against open assessments
type ResponseService struct {
	responses   ResponseStore
	assessments AssessmentStore
	catalog     *catalog.Catalog
}

// NewResponseService creates a new response service
func NewResponseService(responses ResponseStore, assessments AssessmentStore, cat *catalog.Catalog) *ResponseService {
	return &ResponseService{
		responses:   responses,
		assessments: assessments,
		catalog:     cat,
	}
}

// CreateAssessment opens a new draft assessment for an employee. An employee
// runs at most one open assessment at a time.
func (s *ResponseService) CreateAssessment(employeeID uint) (*models.Assessment, error) {
	open, err := s.assessments.HasOpenAssessment(employeeID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, fmt.Errorf("employee %d already has an open assessment", employeeID)
	}

	assessment := &models.Assessment{
		EmployeeID: employeeID,
		Status:     models.StatusDraft,
		StartedAt:  time.Now(),
	}
	if err := s.assessments.Create(assessment); err != nil {
		return nil, err
	}

	slog.Info("Assessment created", "assessment_id", assessment.ID, "employee_id", employeeID)
	return assessment, nil
}

// RecordResponse validates and stores one answer. Repeated calls for the
// same (assessment, question) overwrite the previous value; no history is
// retained. The first answer transitions the assessment to in_progress.
func (s *ResponseService) RecordResponse(assessmentID, questionID uint, answer models.AnswerValue, elapsedMs int) (*models.Response, error) {
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	if assessment.Status == models.StatusCompleted || assessment.Status == models.StatusAbandoned {
		return nil, ErrAssessmentClosed
	}

	question, ok := s.catalog.Question(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	if elapsedMs < 0 {
		return nil, fmt.Errorf("%w: negative response time", ErrInvalidValue)
	}
	if err := answer.Validate(&question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	response := &models.Response{
		AssessmentID:   assessmentID,
		QuestionID:     questionID,
		ResponseValue:  answer.NumericValue(&question),
		ResponseTimeMs: elapsedMs,
	}
	if question.Type != models.QuestionTypeLikert {
		code := answer.Value
		response.ResponseCode = &code
	}

	if err := s.responses.Upsert(response); err != nil {
		return nil, err
	}

	if assessment.Status == models.StatusDraft {
		if err := s.assessments.MarkInProgress(assessmentID, time.Now()); err != nil {
			return nil, err
		}
		slog.Info("Assessment started", "assessment_id", assessmentID)
	}

	return response, nil
}

// GetAssessment retrieves an assessment with an ownership check. Admin
// callers pass ownerID 0 to bypass the check.
func (s *ResponseService) GetAssessment(assessmentID, ownerID uint) (*models.Assessment, error) {
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	if ownerID != 0 && assessment.EmployeeID != ownerID {
		return nil, fmt.Errorf("permission denied: assessment belongs to another employee")
	}
	return assessment, nil
}

// GetEmployeeAssessments lists all assessments for one employee
func (s *ResponseService) GetEmployeeAssessments(employeeID uint) ([]models.Assessment, error) {
	return s.assessments.GetByEmployeeID(employeeID)
}

// GetCompleteness reports answering progress for an assessment
func (s *ResponseService) GetCompleteness(assessmentID uint) (*models.AssessmentCompleteness, error) {
	answered, err := s.responses.AnsweredQuestionIDs(assessmentID)
	if err != nil {
		return nil, err
	}

	total := s.catalog.RequiredCount()
	var missing []uint
	for _, q := range s.catalog.Questions() {
		if !answered[q.ID] {
			missing = append(missing, q.ID)
		}
	}

	var percent float64
	if total > 0 {
		percent = float64(len(answered)) / float64(total) * 100
	}

	return &models.AssessmentCompleteness{
		TotalQuestions:    total,
		AnsweredQuestions: len(answered),
		PercentComplete:   percent,
		IsComplete:        len(missing) == 0 && total > 0,
		MissingQuestions:  missing,
	}, nil
}
