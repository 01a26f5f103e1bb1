package service

import (
	"errors"
	"reflect"
	"testing"

	"pir-integrity/internal/models"
)

func newAnalysisFixture(t *testing.T) (*AnalysisService, *fakeAssessmentStore, *fakeResponseStore, *fakeAnalysisStore) {
	t.Helper()
	cat := newTestCatalog(t)
	assessments := newFakeAssessmentStore()
	responses := newFakeResponseStore()
	results := newFakeAnalysisStore()
	svc := NewAnalysisService(responses, results, assessments, cat, testEngineConfig())
	return svc, assessments, responses, results
}

func TestRunAnalysisCleanSet(t *testing.T) {
	svc, assessments, responses, results := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerClean(responses, a.ID, 5000)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}

	if len(summary.Pattern.Flags) != 0 {
		t.Errorf("Expected no flags, got %v", summary.Pattern.Flags)
	}
	if summary.Pattern.AvgResponseTimeMs != 5000 {
		t.Errorf("Expected mean 5000ms, got %f", summary.Pattern.AvgResponseTimeMs)
	}
	if summary.CrossValidation.Inconsistent != 0 {
		t.Errorf("Expected 0 inconsistent pairs, got %d", summary.CrossValidation.Inconsistent)
	}
	if summary.CrossValidation.FlagTriggered {
		t.Error("Expected no cross-validation flag on a consistent set")
	}
	if len(summary.CrossValidation.Pairs) != 2 {
		t.Errorf("Expected 2 evaluated pairs, got %d", len(summary.CrossValidation.Pairs))
	}

	saved, _ := results.GetByAssessment(a.ID)
	if saved == nil {
		t.Fatal("Expected analysis result to be persisted")
	}
}

func TestRunAnalysisImpulsiveFlag(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerClean(responses, a.ID, 5000)
	// 3 of 10 answered under the 2000ms floor pushes the ratio past 20%
	responses.answer(a.ID, 1, 4, 900)
	responses.answer(a.ID, 3, 3, 1200)
	responses.answer(a.ID, 4, 4, 1500)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if !summary.Pattern.HasFlag(models.FlagImpulsiveResponding) {
		t.Errorf("Expected impulsive_responding flag, got %v", summary.Pattern.Flags)
	}
}

func TestRunAnalysisImpulsiveRatioBoundary(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerClean(responses, a.ID, 5000)
	// exactly 20% fast responses stays under the strictly-greater threshold
	responses.answer(a.ID, 1, 4, 900)
	responses.answer(a.ID, 3, 3, 1200)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if summary.Pattern.HasFlag(models.FlagImpulsiveResponding) {
		t.Error("Expected no impulsive_responding flag at exactly 20%")
	}
}

func TestRunAnalysisMonotonyFlag(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerEverything(responses, newTestCatalog(t), a.ID, 5000)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if !summary.Pattern.HasFlag(models.FlagPatternMonotony) {
		t.Errorf("Expected pattern_monotony flag on a straight-lined set, got %v", summary.Pattern.Flags)
	}
	if summary.Pattern.ConsecutiveIdenticalMax != 7 {
		t.Errorf("Expected run of 7, got %d", summary.Pattern.ConsecutiveIdenticalMax)
	}
}

func TestRunAnalysisMonotonyRunBelowThreshold(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	// run of 5 identical answers, one short of the threshold
	responses.answer(a.ID, 1, 3, 5000)
	responses.answer(a.ID, 2, 3, 5000)
	responses.answer(a.ID, 3, 3, 5000)
	responses.answer(a.ID, 4, 3, 5000)
	responses.answer(a.ID, 5, 3, 5000)
	responses.answer(a.ID, 6, 4, 5000)
	responses.answer(a.ID, 7, 2, 5000)
	responses.answerCode(a.ID, 8, 1, "B", 5000)
	responses.answerCode(a.ID, 9, 2, "C", 5000)
	responses.answerCode(a.ID, 10, 0, "A", 5000)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if summary.Pattern.HasFlag(models.FlagPatternMonotony) {
		t.Error("Expected no pattern_monotony flag for a run of 5")
	}
	if summary.Pattern.ConsecutiveIdenticalMax != 5 {
		t.Errorf("Expected run of 5, got %d", summary.Pattern.ConsecutiveIdenticalMax)
	}
}

func TestRunAnalysisSocialDesirabilityFlag(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerClean(responses, a.ID, 5000)
	// the only SD item answered at the ideal extreme puts the rate at 100%
	responses.answer(a.ID, 3, 5, 5000)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if !summary.Pattern.HasFlag(models.FlagSocialDesirability) {
		t.Errorf("Expected social_desirability_bias flag, got %v", summary.Pattern.Flags)
	}
}

func TestRunAnalysisInconsistentReporting(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerClean(responses, a.ID, 5000)
	// break both pairs: same-direction spread of 3, reverse pair summing to 3
	responses.answer(a.ID, 5, 1, 5000)
	responses.answer(a.ID, 7, 1, 5000)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if summary.CrossValidation.Inconsistent != 2 {
		t.Errorf("Expected 2 inconsistent pairs, got %d", summary.CrossValidation.Inconsistent)
	}
	if !summary.CrossValidation.FlagTriggered {
		t.Error("Expected cross-validation flag at 2 violations")
	}
	if !summary.Pattern.HasFlag(models.FlagInconsistentReporting) {
		t.Errorf("Expected inconsistent_reporting flag, got %v", summary.Pattern.Flags)
	}
}

func TestRunAnalysisSingleViolationBelowThreshold(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerClean(responses, a.ID, 5000)
	responses.answer(a.ID, 5, 1, 5000)

	summary, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if summary.CrossValidation.Inconsistent != 1 {
		t.Errorf("Expected 1 inconsistent pair, got %d", summary.CrossValidation.Inconsistent)
	}
	if summary.CrossValidation.FlagTriggered {
		t.Error("Expected no flag below the two-violation threshold")
	}
	if summary.Pattern.HasFlag(models.FlagInconsistentReporting) {
		t.Errorf("Expected no inconsistent_reporting flag, got %v", summary.Pattern.Flags)
	}
}

func TestCheckPairsBoundaries(t *testing.T) {
	svc, _, _, _ := newAnalysisFixture(t)

	tests := []struct {
		name        string
		valueA      int // question 4 or 6
		valueB      int // question 5 or 7
		reversePair bool
		consistent  bool
	}{
		{"Same direction exact match", 3, 3, false, true},
		{"Same direction one apart", 3, 4, false, true},
		{"Same direction two apart", 3, 5, false, false},
		{"Reverse pair sum 5", 2, 3, true, true},
		{"Reverse pair sum 6", 2, 4, true, true},
		{"Reverse pair sum 7", 3, 4, true, true},
		{"Reverse pair sum 4", 2, 2, true, false},
		{"Reverse pair sum 8", 4, 4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byQuestion := map[uint]models.Response{}
			if tt.reversePair {
				byQuestion[6] = models.Response{QuestionID: 6, ResponseValue: tt.valueA}
				byQuestion[7] = models.Response{QuestionID: 7, ResponseValue: tt.valueB}
			} else {
				byQuestion[4] = models.Response{QuestionID: 4, ResponseValue: tt.valueA}
				byQuestion[5] = models.Response{QuestionID: 5, ResponseValue: tt.valueB}
			}

			result := svc.checkPairs(1, byQuestion)
			if len(result.Pairs) != 1 {
				t.Fatalf("Expected 1 evaluated pair, got %d", len(result.Pairs))
			}
			pair := result.Pairs[0]
			if pair.Reverse != tt.reversePair {
				t.Errorf("Expected reverse=%v, got %v", tt.reversePair, pair.Reverse)
			}
			if pair.Consistent != tt.consistent {
				t.Errorf("Expected consistent=%v for %d/%d, got %v", tt.consistent, tt.valueA, tt.valueB, pair.Consistent)
			}
		})
	}
}

func TestRunAnalysisIncompleteResponses(t *testing.T) {
	svc, assessments, responses, results := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	responses.answer(a.ID, 1, 3, 5000)
	responses.answer(a.ID, 2, 3, 5000)

	_, err := svc.RunAnalysis(a.ID)
	if !errors.Is(err, ErrIncompleteResponses) {
		t.Fatalf("Expected ErrIncompleteResponses, got %v", err)
	}

	if saved, _ := results.GetByAssessment(a.ID); saved != nil {
		t.Error("Expected no partial analysis to be persisted")
	}
}

func TestRunAnalysisAssessmentNotFound(t *testing.T) {
	svc, _, _, _ := newAnalysisFixture(t)
	if _, err := svc.RunAnalysis(999); !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("Expected ErrAssessmentNotFound, got %v", err)
	}
}

func TestRunAnalysisDeterministic(t *testing.T) {
	svc, assessments, responses, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)
	answerEverything(responses, newTestCatalog(t), a.ID, 1000)

	first, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("First RunAnalysis failed: %v", err)
	}
	second, err := svc.RunAnalysis(a.ID)
	if err != nil {
		t.Fatalf("Second RunAnalysis failed: %v", err)
	}

	if !reflect.DeepEqual(first.Pattern.Flags, second.Pattern.Flags) {
		t.Errorf("Expected identical flags across reruns, got %v then %v", first.Pattern.Flags, second.Pattern.Flags)
	}
	if first.Pattern.AvgResponseTimeMs != second.Pattern.AvgResponseTimeMs {
		t.Error("Expected identical statistics across reruns")
	}
}

func TestGetAnalysisResultMissing(t *testing.T) {
	svc, assessments, _, _ := newAnalysisFixture(t)
	a := assessments.add(models.StatusInProgress, 1)

	if _, err := svc.GetResult(a.ID); !errors.Is(err, ErrAnalysisMissing) {
		t.Fatalf("Expected ErrAnalysisMissing, got %v", err)
	}
}
