package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pir-integrity/internal/catalog"
	"pir-integrity/internal/config"
	"pir-integrity/internal/models"
	"pir-integrity/internal/repository"
)

// IndicatorStore persists the terminal scoring outcome
type IndicatorStore interface {
	GetByAssessment(assessmentID uint) ([]models.EthicsIndicator, error)
	ExistsForAssessment(assessmentID uint) (bool, error)
	SaveScoringResult(result *models.ScoringResult, completedAt time.Time) error
	ResetScoring(assessmentID uint) error
}

// ScoringService aggregates dimension scores, pattern flags and
// cross-validation results into the assessment's overall score, risk level
// and moral-development stage. It runs once per assessment; re-scoring
// requires an explicit reset.
type ScoringService struct {
	indicators  IndicatorStore
	results     AnalysisStore
	responses   ResponseReader
	assessments AssessmentReader
	catalog     *catalog.Catalog
	cfg         *config.EngineConfig
}

// NewScoringService creates a new scoring service
func NewScoringService(
	indicators IndicatorStore,
	results AnalysisStore,
	responses ResponseReader,
	assessments AssessmentReader,
	cat *catalog.Catalog,
	cfg *config.EngineConfig,
) *ScoringService {
	return &ScoringService{
		indicators:  indicators,
		results:     results,
		responses:   responses,
		assessments: assessments,
		catalog:     cat,
		cfg:         cfg,
	}
}

// ComputeEthicsIndicators performs the terminal scoring pass. On success it
// writes one indicator row per dimension and completes the assessment in a
// single transaction. A second call fails with ErrAlreadyScored and leaves
// the first call's result untouched.
func (s *ScoringService) ComputeEthicsIndicators(assessmentID uint) (*models.ScoringResult, error) {
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	if assessment.Status == models.StatusCompleted {
		return nil, ErrAlreadyScored
	}
	if assessment.Status != models.StatusInProgress {
		return nil, fmt.Errorf("assessment %d is not in progress", assessmentID)
	}

	exists, err := s.indicators.ExistsForAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyScored
	}

	pattern, err := s.results.GetByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return nil, ErrAnalysisMissing
	}

	responses, err := s.responses.GetByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if len(responses) < s.catalog.RequiredCount() {
		return nil, ErrIncompleteResponses
	}

	result := s.score(assessmentID, responses, pattern)

	if err := s.indicators.SaveScoringResult(result, time.Now()); err != nil {
		if errors.Is(err, repository.ErrIndicatorsExist) {
			return nil, ErrAlreadyScored
		}
		return nil, fmt.Errorf("%w: %v", ErrAtomicCommitFailure, err)
	}

	slog.Info("Assessment scored",
		"assessment_id", assessmentID,
		"overall_score", result.OverallScore,
		"risk_level", result.RiskLevel,
		"moral_level", result.MoralLevel,
	)

	return result, nil
}

// GetResult returns the persisted scoring result of a completed assessment
func (s *ScoringService) GetResult(assessmentID uint) (*models.ScoringResult, error) {
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	if assessment.Status != models.StatusCompleted || assessment.OverallScore == nil {
		return nil, fmt.Errorf("assessment %d has not been scored", assessmentID)
	}

	indicators, err := s.indicators.GetByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	result := &models.ScoringResult{
		AssessmentID: assessmentID,
		OverallScore: *assessment.OverallScore,
		RiskLevel:    *assessment.RiskLevel,
		MoralLevel:   *assessment.MoralLevel,
	}
	for _, ind := range indicators {
		dim := models.DimensionScore{
			DimensionID: ind.DimensionID,
			Score:       ind.Score,
			RiskLevel:   ind.RiskLevel,
		}
		if cat, ok := s.catalog.Category(ind.DimensionID); ok {
			dim.DimensionCode = cat.Code
			dim.DimensionName = cat.Name
		}
		result.DimensionScores = append(result.DimensionScores, dim)
	}

	return result, nil
}

// Reset deletes a completed assessment's indicators and derived fields,
// returning it to in_progress so it can be scored again. Administrative.
func (s *ScoringService) Reset(assessmentID uint) error {
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return err
	}
	if assessment == nil {
		return ErrAssessmentNotFound
	}
	if assessment.Status != models.StatusCompleted {
		return fmt.Errorf("assessment %d has no scoring result to reset", assessmentID)
	}

	if err := s.indicators.ResetScoring(assessmentID); err != nil {
		return err
	}

	slog.Info("Scoring reset", "assessment_id", assessmentID)
	return nil
}

// score is a pure function over the response snapshot and analysis result
func (s *ScoringService) score(assessmentID uint, responses []models.Response, pattern *models.PatternAnalysisResult) *models.ScoringResult {
	byQuestion := make(map[uint]models.Response, len(responses))
	for _, r := range responses {
		byQuestion[r.QuestionID] = r
	}

	result := &models.ScoringResult{AssessmentID: assessmentID}

	var weightedSum, weightTotal float64
	for _, cat := range s.catalog.Categories() {
		score, ok := s.dimensionScore(cat.ID, byQuestion)
		if !ok {
			continue
		}
		result.DimensionScores = append(result.DimensionScores, models.DimensionScore{
			DimensionID:   cat.ID,
			DimensionCode: cat.Code,
			DimensionName: cat.Name,
			Score:         score,
			RiskLevel:     riskLevelForScore(score),
		})
		weightedSum += score * cat.Weight
		weightTotal += cat.Weight
	}

	var overall float64
	if weightTotal > 0 {
		overall = weightedSum / weightTotal
	}
	overall -= float64(len(pattern.Flags)) * s.cfg.FlagPenalty
	if overall < 0 {
		overall = 0
	}
	result.OverallScore = overall

	// A statistically unreliable response set cannot support a benign score.
	if pattern.SevereFlagCount() >= 2 {
		result.RiskLevel = models.RiskCritical
	} else {
		result.RiskLevel = riskLevelForScore(overall)
	}

	result.MoralLevel = s.moralLevel(byQuestion)

	return result
}

// dimensionScore averages the dimension's likert responses after reverse
// transformation and scales the 1-5 mean onto 0-100
func (s *ScoringService) dimensionScore(categoryID uint, byQuestion map[uint]models.Response) (float64, bool) {
	var sum float64
	var n int
	for _, q := range s.catalog.QuestionsByCategory(categoryID) {
		if q.Type != models.QuestionTypeLikert {
			continue
		}
		r, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		v := r.ResponseValue
		if q.ReverseScored {
			v = reverseScore(v)
		}
		sum += float64(v)
		n++
	}

	if n == 0 {
		return 0, false
	}

	mean := sum / float64(n)
	return (mean - 1) / 4 * 100, true
}

// moralLevel classifies the Kohlberg stage: the stage with a plurality of
// scenario answers matching their tagged ideal answer wins. Ties break
// toward the more conservative stage.
func (s *ScoringService) moralLevel(byQuestion map[uint]models.Response) models.MoralLevel {
	counts := map[models.MoralLevel]int{}
	for _, q := range s.catalog.ScenarioQuestions() {
		r, ok := byQuestion[q.ID]
		if !ok || q.IdealScenarioOption == nil || r.ResponseCode == nil {
			continue
		}
		if *r.ResponseCode == *q.IdealScenarioOption {
			counts[*q.MoralStage]++
		}
	}

	// Tie-break priority order, most conservative first.
	order := []models.MoralLevel{
		models.MoralPreConventional,
		models.MoralConventional,
		models.MoralPostConventional,
	}
	best := order[0]
	for _, stage := range order[1:] {
		if counts[stage] > counts[best] {
			best = stage
		}
	}
	return best
}

// riskLevelForScore applies the four-tier thresholds shared by dimension
// and overall scores
func riskLevelForScore(score float64) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskLow
	case score >= 60:
		return models.RiskModerate
	case score >= 40:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}
