package service

import (
	"testing"
	"time"

	"pir-integrity/internal/catalog"
	"pir-integrity/internal/config"
	"pir-integrity/internal/models"
	"pir-integrity/internal/repository"
)

// fakeLoader supplies a fixed catalog without a database
type fakeLoader struct {
	categories []models.Category
	questions  []models.Question
}

func (f *fakeLoader) ListCategories() ([]models.Category, error) { return f.categories, nil }
func (f *fakeLoader) ListQuestions() ([]models.Question, error)  { return f.questions, nil }

func uintPtr(v uint) *uint                        { return &v }
func strPtr(v string) *string                     { return &v }
func stagePtr(v models.MoralLevel) *models.MoralLevel { return &v }

// newTestCatalog builds a ten-question catalog covering both dimensions,
// reverse scoring, social desirability, two cross-validation pairs and
// three moral-stage scenarios.
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	loader := &fakeLoader{
		categories: []models.Category{
			{ID: 1, Code: "personal_integrity", Name: "Integridade Pessoal", Weight: 0.75, DisplayOrder: 1},
			{ID: 2, Code: "emotional_stability", Name: "Estabilidade Emocional", Weight: 0.25, DisplayOrder: 2},
		},
		questions: []models.Question{
			{ID: 1, CategoryID: 1, Type: models.QuestionTypeLikert, DisplayOrder: 1},
			{ID: 2, CategoryID: 1, Type: models.QuestionTypeLikert, ReverseScored: true, DisplayOrder: 2},
			{ID: 3, CategoryID: 1, Type: models.QuestionTypeLikert, SocialDesirability: true, DisplayOrder: 3},
			{ID: 4, CategoryID: 2, Type: models.QuestionTypeLikert, IsCrossValidation: true, RelatedQuestionID: uintPtr(5), DisplayOrder: 4},
			{ID: 5, CategoryID: 2, Type: models.QuestionTypeLikert, IsCrossValidation: true, RelatedQuestionID: uintPtr(4), DisplayOrder: 5},
			{ID: 6, CategoryID: 2, Type: models.QuestionTypeLikert, ReverseScored: true, IsCrossValidation: true, RelatedQuestionID: uintPtr(7), DisplayOrder: 6},
			{ID: 7, CategoryID: 2, Type: models.QuestionTypeLikert, IsCrossValidation: true, RelatedQuestionID: uintPtr(6), DisplayOrder: 7},
			{ID: 8, CategoryID: 1, Type: models.QuestionTypeScenario, Options: []string{"A", "B", "C"}, IdealScenarioOption: strPtr("B"), MoralStage: stagePtr(models.MoralConventional), DisplayOrder: 8},
			{ID: 9, CategoryID: 2, Type: models.QuestionTypeScenario, Options: []string{"A", "B", "C"}, IdealScenarioOption: strPtr("C"), MoralStage: stagePtr(models.MoralPostConventional), DisplayOrder: 9},
			{ID: 10, CategoryID: 1, Type: models.QuestionTypeScenario, Options: []string{"A", "B", "C"}, IdealScenarioOption: strPtr("A"), MoralStage: stagePtr(models.MoralPreConventional), DisplayOrder: 10},
		},
	}

	cat := catalog.New(loader)
	if err := cat.Load(); err != nil {
		t.Fatalf("Failed to load test catalog: %v", err)
	}
	return cat
}

// testEngineConfig mirrors the default thresholds
func testEngineConfig() *config.EngineConfig {
	return &config.EngineConfig{
		ImpulsiveFloorMs:       2000,
		ImpulsiveRatio:         0.20,
		MonotonyRunLength:      6,
		SocialDesirabilityRate: 0.80,
		InconsistencyThreshold: 2,
		FlagPenalty:            5,
	}
}

// fakeAssessmentStore keeps assessments in memory
type fakeAssessmentStore struct {
	assessments map[uint]*models.Assessment
	nextID      uint
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{assessments: make(map[uint]*models.Assessment), nextID: 1}
}

func (f *fakeAssessmentStore) add(status models.AssessmentStatus, employeeID uint) *models.Assessment {
	a := &models.Assessment{
		ID:         f.nextID,
		EmployeeID: employeeID,
		Status:     status,
		StartedAt:  time.Now(),
	}
	f.assessments[a.ID] = a
	f.nextID++
	return a
}

func (f *fakeAssessmentStore) Create(assessment *models.Assessment) error {
	assessment.ID = f.nextID
	f.nextID++
	copied := *assessment
	f.assessments[assessment.ID] = &copied
	return nil
}

func (f *fakeAssessmentStore) GetByID(assessmentID uint) (*models.Assessment, error) {
	a, ok := f.assessments[assessmentID]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAssessmentStore) GetByEmployeeID(employeeID uint) ([]models.Assessment, error) {
	var out []models.Assessment
	for _, a := range f.assessments {
		if a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentStore) HasOpenAssessment(employeeID uint) (bool, error) {
	for _, a := range f.assessments {
		if a.EmployeeID == employeeID && (a.Status == models.StatusDraft || a.Status == models.StatusInProgress) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssessmentStore) MarkInProgress(assessmentID uint, startedAt time.Time) error {
	if a, ok := f.assessments[assessmentID]; ok && a.Status == models.StatusDraft {
		a.Status = models.StatusInProgress
		a.StartedAt = startedAt
	}
	return nil
}

// fakeResponseStore keeps responses in display order per assessment
type fakeResponseStore struct {
	responses map[uint][]models.Response
	nextID    uint
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{responses: make(map[uint][]models.Response), nextID: 1}
}

func (f *fakeResponseStore) Upsert(response *models.Response) error {
	list := f.responses[response.AssessmentID]
	for i, existing := range list {
		if existing.QuestionID == response.QuestionID {
			response.ID = existing.ID
			list[i] = *response
			return nil
		}
	}
	response.ID = f.nextID
	f.nextID++
	f.responses[response.AssessmentID] = append(list, *response)
	return nil
}

func (f *fakeResponseStore) GetByAssessment(assessmentID uint) ([]models.Response, error) {
	list := f.responses[assessmentID]
	out := make([]models.Response, len(list))
	copy(out, list)
	return out, nil
}

func (f *fakeResponseStore) CountByAssessment(assessmentID uint) (int, error) {
	return len(f.responses[assessmentID]), nil
}

func (f *fakeResponseStore) AnsweredQuestionIDs(assessmentID uint) (map[uint]bool, error) {
	answered := make(map[uint]bool)
	for _, r := range f.responses[assessmentID] {
		answered[r.QuestionID] = true
	}
	return answered, nil
}

// answer stores a likert response directly, bypassing validation
func (f *fakeResponseStore) answer(assessmentID, questionID uint, value, timeMs int) {
	f.Upsert(&models.Response{
		AssessmentID:   assessmentID,
		QuestionID:     questionID,
		ResponseValue:  value,
		ResponseTimeMs: timeMs,
	})
}

// answerCode stores a choice or scenario response with its option code
func (f *fakeResponseStore) answerCode(assessmentID, questionID uint, index int, code string, timeMs int) {
	f.Upsert(&models.Response{
		AssessmentID:   assessmentID,
		QuestionID:     questionID,
		ResponseValue:  index,
		ResponseCode:   &code,
		ResponseTimeMs: timeMs,
	})
}

// fakeAnalysisStore keeps one analysis result per assessment
type fakeAnalysisStore struct {
	results map[uint]*models.PatternAnalysisResult
}

func newFakeAnalysisStore() *fakeAnalysisStore {
	return &fakeAnalysisStore{results: make(map[uint]*models.PatternAnalysisResult)}
}

func (f *fakeAnalysisStore) Save(result *models.PatternAnalysisResult) error {
	copied := *result
	f.results[result.AssessmentID] = &copied
	return nil
}

func (f *fakeAnalysisStore) GetByAssessment(assessmentID uint) (*models.PatternAnalysisResult, error) {
	r, ok := f.results[assessmentID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

// fakeIndicatorStore mimics the transactional run-once guard
type fakeIndicatorStore struct {
	assessments *fakeAssessmentStore
	saved       map[uint]*models.ScoringResult
	saveErr     error
}

func newFakeIndicatorStore(assessments *fakeAssessmentStore) *fakeIndicatorStore {
	return &fakeIndicatorStore{
		assessments: assessments,
		saved:       make(map[uint]*models.ScoringResult),
	}
}

func (f *fakeIndicatorStore) GetByAssessment(assessmentID uint) ([]models.EthicsIndicator, error) {
	result, ok := f.saved[assessmentID]
	if !ok {
		return nil, nil
	}
	var out []models.EthicsIndicator
	for _, dim := range result.DimensionScores {
		out = append(out, models.EthicsIndicator{
			AssessmentID: assessmentID,
			DimensionID:  dim.DimensionID,
			Score:        dim.Score,
			RiskLevel:    dim.RiskLevel,
		})
	}
	return out, nil
}

func (f *fakeIndicatorStore) ExistsForAssessment(assessmentID uint) (bool, error) {
	_, ok := f.saved[assessmentID]
	return ok, nil
}

func (f *fakeIndicatorStore) SaveScoringResult(result *models.ScoringResult, completedAt time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.saved[result.AssessmentID]; ok {
		return repository.ErrIndicatorsExist
	}
	copied := *result
	f.saved[result.AssessmentID] = &copied

	if a, ok := f.assessments.assessments[result.AssessmentID]; ok {
		a.Status = models.StatusCompleted
		a.OverallScore = &copied.OverallScore
		a.RiskLevel = &copied.RiskLevel
		a.MoralLevel = &copied.MoralLevel
		a.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeIndicatorStore) ResetScoring(assessmentID uint) error {
	delete(f.saved, assessmentID)
	if a, ok := f.assessments.assessments[assessmentID]; ok {
		a.Status = models.StatusInProgress
		a.OverallScore = nil
		a.RiskLevel = nil
		a.MoralLevel = nil
		a.CompletedAt = nil
	}
	return nil
}

// answerEverything fills a full neutral response set: likert 3, scenario "A".
// Answering every likert item identically straight-lines the set.
func answerEverything(responses *fakeResponseStore, cat *catalog.Catalog, assessmentID uint, timeMs int) {
	for _, q := range cat.Questions() {
		if q.Type == models.QuestionTypeLikert {
			responses.answer(assessmentID, q.ID, 3, timeMs)
		} else {
			responses.answerCode(assessmentID, q.ID, 0, "A", timeMs)
		}
	}
}

// answerClean fills a complete response set that triggers no anomaly flag:
// varied likert values, consistent pairs, every scenario matching its ideal
func answerClean(responses *fakeResponseStore, assessmentID uint, timeMs int) {
	responses.answer(assessmentID, 1, 4, timeMs)
	responses.answer(assessmentID, 2, 2, timeMs)
	responses.answer(assessmentID, 3, 3, timeMs)
	responses.answer(assessmentID, 4, 4, timeMs)
	responses.answer(assessmentID, 5, 4, timeMs)
	responses.answer(assessmentID, 6, 2, timeMs)
	responses.answer(assessmentID, 7, 4, timeMs)
	responses.answerCode(assessmentID, 8, 1, "B", timeMs)
	responses.answerCode(assessmentID, 9, 2, "C", timeMs)
	responses.answerCode(assessmentID, 10, 0, "A", timeMs)
}
