package models

import (
	"time"
)

// QuestionType identifies how a question is presented and answered
type QuestionType string

const (
	QuestionTypeLikert         QuestionType = "likert_scale"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeScenario       QuestionType = "scenario"
)

// Likert scale bounds used across the engine
const (
	LikertMin = 1
	LikertMax = 5
)

// RiskLevel classifies an integrity score into one of four tiers
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// MoralLevel is the Kohlberg stage classification of an assessment
type MoralLevel string

const (
	MoralPreConventional  MoralLevel = "pre_conventional"
	MoralConventional     MoralLevel = "conventional"
	MoralPostConventional MoralLevel = "post_conventional"
)

// AssessmentStatus is the lifecycle state of an assessment
type AssessmentStatus string

const (
	StatusDraft      AssessmentStatus = "draft"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
	StatusAbandoned  AssessmentStatus = "abandoned"
)

// AnomalyFlag marks a response-quality anomaly detected by the pattern analyzer
type AnomalyFlag string

const (
	FlagImpulsiveResponding   AnomalyFlag = "impulsive_responding"
	FlagPatternMonotony       AnomalyFlag = "pattern_monotony"
	FlagSocialDesirability    AnomalyFlag = "social_desirability_bias"
	FlagInconsistentReporting AnomalyFlag = "inconsistent_reporting"
)

// SevereFlags are the flags that mark a response set as statistically
// unreliable. Two or more of these force a critical risk level.
var SevereFlags = []AnomalyFlag{FlagPatternMonotony, FlagInconsistentReporting}

// Category represents one of the six integrity dimensions
type Category struct {
	ID           uint      `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	Weight       float64   `json:"weight" db:"weight"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Question represents a single catalog question belonging to one category
type Question struct {
	ID                  uint         `json:"id" db:"id"`
	CategoryID          uint         `json:"category_id" db:"category_id"`
	Text                string       `json:"text" db:"text"`
	Type                QuestionType `json:"type" db:"type"`
	Options             []string     `json:"options,omitempty" db:"-"`
	ExpectedAnswer      *string      `json:"expected_answer,omitempty" db:"expected_answer"`
	MeasuresEthics      bool         `json:"measures_ethics" db:"measures_ethics"`
	MeasuresIntegrity   bool         `json:"measures_integrity" db:"measures_integrity"`
	MeasuresHonesty     bool         `json:"measures_honesty" db:"measures_honesty"`
	MeasuresReliability bool         `json:"measures_reliability" db:"measures_reliability"`
	ReverseScored       bool         `json:"reverse_scored" db:"reverse_scored"`
	IsCrossValidation   bool         `json:"is_cross_validation" db:"is_cross_validation"`
	RelatedQuestionID   *uint        `json:"related_question_id,omitempty" db:"related_question_id"`
	SocialDesirability  bool         `json:"social_desirability_flag" db:"social_desirability_flag"`
	MoralStage          *MoralLevel  `json:"moral_stage,omitempty" db:"moral_stage"`
	IdealScenarioOption *string      `json:"ideal_scenario_option,omitempty" db:"ideal_scenario_option"`
	DisplayOrder        int          `json:"display_order" db:"display_order"`
	CreatedAt           time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at" db:"updated_at"`
}

// Response represents a test-taker's answer to one question. Exactly one row
// exists per (assessment, question); a rewrite replaces the earlier value.
type Response struct {
	ID             uint      `json:"id" db:"id"`
	AssessmentID   uint      `json:"assessment_id" db:"assessment_id"`
	QuestionID     uint      `json:"question_id" db:"question_id"`
	ResponseValue  int       `json:"response_value" db:"response_value"`
	ResponseCode   *string   `json:"response_code,omitempty" db:"response_code"`
	ResponseTimeMs int       `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Assessment represents one integrity test session for an employee
type Assessment struct {
	ID           uint             `json:"id" db:"id"`
	EmployeeID   uint             `json:"employee_id" db:"employee_id"`
	Status       AssessmentStatus `json:"status" db:"status"`
	OverallScore *float64         `json:"overall_score,omitempty" db:"overall_score"`
	RiskLevel    *RiskLevel       `json:"risk_level,omitempty" db:"risk_level"`
	MoralLevel   *MoralLevel      `json:"moral_level,omitempty" db:"moral_level"`
	StartedAt    time.Time        `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// PatternAnalysisResult is the outcome of the statistical pass over a
// completed response set. Recomputation overwrites the prior row.
type PatternAnalysisResult struct {
	AssessmentID            uint          `json:"assessment_id" db:"assessment_id"`
	AvgResponseTimeMs       float64       `json:"avg_response_time_ms" db:"avg_response_time_ms"`
	StdDevResponseTimeMs    float64       `json:"std_dev_response_time_ms" db:"std_dev_response_time_ms"`
	ConsecutiveIdenticalMax int           `json:"consecutive_identical_max" db:"consecutive_identical_max"`
	Flags                   []AnomalyFlag `json:"flags" db:"-"`
	CreatedAt               time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at" db:"updated_at"`
}

// HasFlag reports whether the result carries the given anomaly flag
func (p *PatternAnalysisResult) HasFlag(flag AnomalyFlag) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// SevereFlagCount counts how many severe flags are present
func (p *PatternAnalysisResult) SevereFlagCount() int {
	count := 0
	for _, f := range SevereFlags {
		if p.HasFlag(f) {
			count++
		}
	}
	return count
}

// CrossValidationPair describes one evaluated question pairing
type CrossValidationPair struct {
	QuestionID        uint `json:"question_id"`
	RelatedQuestionID uint `json:"related_question_id"`
	ValueA            int  `json:"value_a"`
	ValueB            int  `json:"value_b"`
	Reverse           bool `json:"reverse"`
	Consistent        bool `json:"consistent"`
}

// CrossValidationResult aggregates pair checks for one assessment
type CrossValidationResult struct {
	AssessmentID  uint                  `json:"assessment_id"`
	Pairs         []CrossValidationPair `json:"pairs"`
	Inconsistent  int                   `json:"inconsistent"`
	FlagTriggered bool                  `json:"flag_triggered"`
}

// EthicsIndicator is the derived per-dimension score row
type EthicsIndicator struct {
	AssessmentID uint      `json:"assessment_id" db:"assessment_id"`
	DimensionID  uint      `json:"dimension_id" db:"dimension_id"`
	Score        float64   `json:"score" db:"score"`
	RiskLevel    RiskLevel `json:"risk_level" db:"risk_level"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AnalysisSummary is returned by the analysis endpoint after submission
type AnalysisSummary struct {
	Pattern         *PatternAnalysisResult `json:"pattern"`
	CrossValidation *CrossValidationResult `json:"cross_validation"`
}

// DimensionScore pairs a category with its derived indicator for API output
type DimensionScore struct {
	DimensionID   uint      `json:"dimension_id"`
	DimensionCode string    `json:"dimension_code"`
	DimensionName string    `json:"dimension_name"`
	Score         float64   `json:"score"`
	RiskLevel     RiskLevel `json:"risk_level"`
}

// ScoringResult is the terminal output of the ethics indicator calculator
type ScoringResult struct {
	AssessmentID    uint             `json:"assessment_id"`
	OverallScore    float64          `json:"overall_score"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	MoralLevel      MoralLevel       `json:"moral_level"`
	DimensionScores []DimensionScore `json:"dimension_scores"`
}

// AssessmentCompleteness reports answering progress for an open assessment
type AssessmentCompleteness struct {
	TotalQuestions    int     `json:"total_questions"`
	AnsweredQuestions int     `json:"answered_questions"`
	PercentComplete   float64 `json:"percent_complete"`
	IsComplete        bool    `json:"is_complete"`
	MissingQuestions  []uint  `json:"missing_questions,omitempty"`
}
