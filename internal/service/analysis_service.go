package service

import (
	"log/slog"

	"pir-integrity/internal/catalog"
	"pir-integrity/internal/config"
	"pir-integrity/internal/models"
)

// ResponseReader supplies the completed response snapshot for analysis
type ResponseReader interface {
	GetByAssessment(assessmentID uint) ([]models.Response, error)
}

// AnalysisStore persists and retrieves pattern analysis results
type AnalysisStore interface {
	Save(result *models.PatternAnalysisResult) error
	GetByAssessment(assessmentID uint) (*models.PatternAnalysisResult, error)
}

// AssessmentReader resolves assessments without exposing write operations
type AssessmentReader interface {
	GetByID(assessmentID uint) (*models.Assessment, error)
}

// AnalysisService runs the statistical pass over a completed response set:
// response-quality anomaly detection plus cross-validation of semantically
// linked question pairs. Both feed the same analysis result, and both must
// complete before scoring.
type AnalysisService struct {
	responses   ResponseReader
	results     AnalysisStore
	assessments AssessmentReader
	catalog     *catalog.Catalog
	cfg         *config.EngineConfig
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	responses ResponseReader,
	results AnalysisStore,
	assessments AssessmentReader,
	cat *catalog.Catalog,
	cfg *config.EngineConfig,
) *AnalysisService {
	return &AnalysisService{
		responses:   responses,
		results:     results,
		assessments: assessments,
		catalog:     cat,
		cfg:         cfg,
	}
}

// RunAnalysis analyzes the full response set of an assessment. It fails with
// ErrIncompleteResponses unless every required question has an answer, and
// never returns a partial analysis. The computation is deterministic: the
// same response snapshot always produces the same flag set, and re-running
// overwrites the stored result.
func (s *AnalysisService) RunAnalysis(assessmentID uint) (*models.AnalysisSummary, error) {
	assessment, err := s.assessments.GetByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}

	responses, err := s.responses.GetByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if len(responses) < s.catalog.RequiredCount() {
		return nil, ErrIncompleteResponses
	}

	pattern, crossValidation := s.analyze(assessmentID, responses)

	if err := s.results.Save(pattern); err != nil {
		return nil, err
	}

	slog.Info("Analysis completed",
		"assessment_id", assessmentID,
		"flags", pattern.Flags,
		"inconsistent_pairs", crossValidation.Inconsistent,
	)

	return &models.AnalysisSummary{
		Pattern:         pattern,
		CrossValidation: crossValidation,
	}, nil
}

// GetResult retrieves the stored analysis result for an assessment
func (s *AnalysisService) GetResult(assessmentID uint) (*models.PatternAnalysisResult, error) {
	result, err := s.results.GetByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrAnalysisMissing
	}
	return result, nil
}

// analyze is a pure function over the response snapshot
func (s *AnalysisService) analyze(assessmentID uint, responses []models.Response) (*models.PatternAnalysisResult, *models.CrossValidationResult) {
	mean, stdDev := responseTimeStats(responses)
	longestRun := longestIdenticalRun(responses)

	byQuestion := make(map[uint]models.Response, len(responses))
	for _, r := range responses {
		byQuestion[r.QuestionID] = r
	}

	var flags []models.AnomalyFlag

	if fastResponseRatio(responses, s.cfg.ImpulsiveFloorMs) > s.cfg.ImpulsiveRatio {
		flags = append(flags, models.FlagImpulsiveResponding)
	}

	if longestRun >= s.cfg.MonotonyRunLength {
		flags = append(flags, models.FlagPatternMonotony)
	}

	if idealExtremeRatio(s.catalog.SocialDesirabilityQuestions(), byQuestion) > s.cfg.SocialDesirabilityRate {
		flags = append(flags, models.FlagSocialDesirability)
	}

	crossValidation := s.checkPairs(assessmentID, byQuestion)
	if crossValidation.Inconsistent >= s.cfg.InconsistencyThreshold {
		crossValidation.FlagTriggered = true
		flags = append(flags, models.FlagInconsistentReporting)
	}

	return &models.PatternAnalysisResult{
		AssessmentID:            assessmentID,
		AvgResponseTimeMs:       mean,
		StdDevResponseTimeMs:    stdDev,
		ConsecutiveIdenticalMax: longestRun,
		Flags:                   flags,
	}, crossValidation
}

// checkPairs evaluates every cross-validation pairing. Items measuring the
// same construct in the same direction should answer within one point;
// a pair with one reverse-scored item should sum to 6, give or take one.
func (s *AnalysisService) checkPairs(assessmentID uint, byQuestion map[uint]models.Response) *models.CrossValidationResult {
	result := &models.CrossValidationResult{AssessmentID: assessmentID}

	for _, pair := range s.catalog.CrossValidationPairs() {
		respA, okA := byQuestion[pair.A.ID]
		respB, okB := byQuestion[pair.B.ID]
		if !okA || !okB {
			continue
		}

		reverse := pair.A.ReverseScored != pair.B.ReverseScored
		var consistent bool
		if reverse {
			sum := respA.ResponseValue + respB.ResponseValue
			consistent = sum >= 5 && sum <= 7
		} else {
			diff := respA.ResponseValue - respB.ResponseValue
			consistent = diff >= -1 && diff <= 1
		}

		if !consistent {
			result.Inconsistent++
		}
		result.Pairs = append(result.Pairs, models.CrossValidationPair{
			QuestionID:        pair.A.ID,
			RelatedQuestionID: pair.B.ID,
			ValueA:            respA.ResponseValue,
			ValueB:            respB.ResponseValue,
			Reverse:           reverse,
			Consistent:        consistent,
		})
	}

	return result
}
