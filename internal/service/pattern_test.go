package service

import (
	"math"
	"testing"

	"pir-integrity/internal/models"
)

func TestReverseScore(t *testing.T) {
	tests := []struct {
		name     string
		raw      int
		expected int
	}{
		{"Strongly disagree becomes strongly agree", 1, 5},
		{"Disagree becomes agree", 2, 4},
		{"Neutral stays neutral", 3, 3},
		{"Agree becomes disagree", 4, 2},
		{"Strongly agree becomes strongly disagree", 5, 1},
		{"Below scale clamps to minimum first", 0, 5},
		{"Above scale clamps to maximum first", 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reverseScore(tt.raw); got != tt.expected {
				t.Errorf("reverseScore(%d) = %d, expected %d", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestResponseTimeStats(t *testing.T) {
	responses := []models.Response{
		{ResponseTimeMs: 2000},
		{ResponseTimeMs: 4000},
		{ResponseTimeMs: 6000},
	}

	mean, stdDev := responseTimeStats(responses)
	if mean != 4000 {
		t.Errorf("Expected mean 4000, got %f", mean)
	}
	// Sample standard deviation of {2000, 4000, 6000}
	if math.Abs(stdDev-2000) > 0.001 {
		t.Errorf("Expected stddev 2000, got %f", stdDev)
	}
}

func TestResponseTimeStatsEdgeCases(t *testing.T) {
	mean, stdDev := responseTimeStats(nil)
	if mean != 0 || stdDev != 0 {
		t.Errorf("Expected 0/0 for empty set, got %f/%f", mean, stdDev)
	}

	mean, stdDev = responseTimeStats([]models.Response{{ResponseTimeMs: 3000}})
	if mean != 3000 || stdDev != 0 {
		t.Errorf("Expected 3000/0 for single response, got %f/%f", mean, stdDev)
	}
}

func TestLongestIdenticalRun(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected int
	}{
		{"Empty set", nil, 0},
		{"Single response", []int{3}, 1},
		{"No repeats", []int{1, 2, 3, 4, 5}, 1},
		{"Run in the middle", []int{1, 3, 3, 3, 3, 3, 2}, 5},
		{"Straight-lined set", []int{4, 4, 4, 4, 4, 4, 4}, 7},
		{"Run at the end wins", []int{2, 2, 1, 5, 5, 5}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := make([]models.Response, len(tt.values))
			for i, v := range tt.values {
				responses[i] = models.Response{ResponseValue: v}
			}
			if got := longestIdenticalRun(responses); got != tt.expected {
				t.Errorf("longestIdenticalRun(%v) = %d, expected %d", tt.values, got, tt.expected)
			}
		})
	}
}

func TestFastResponseRatio(t *testing.T) {
	responses := []models.Response{
		{ResponseTimeMs: 500},
		{ResponseTimeMs: 1999},
		{ResponseTimeMs: 2000}, // exactly at the floor does not count
		{ResponseTimeMs: 4000},
	}

	if got := fastResponseRatio(responses, 2000); got != 0.5 {
		t.Errorf("Expected ratio 0.5, got %f", got)
	}
	if got := fastResponseRatio(nil, 2000); got != 0 {
		t.Errorf("Expected ratio 0 for empty set, got %f", got)
	}
}

func TestIdealExtremeRatio(t *testing.T) {
	sdQuestions := []models.Question{
		{ID: 1},
		{ID: 2, ReverseScored: true},
		{ID: 3},
		{ID: 4}, // unanswered, excluded from the denominator
	}
	byQuestion := map[uint]models.Response{
		1: {QuestionID: 1, ResponseValue: 5}, // ideal extreme
		2: {QuestionID: 2, ResponseValue: 1}, // ideal extreme for a reverse item
		3: {QuestionID: 3, ResponseValue: 4},
	}

	got := idealExtremeRatio(sdQuestions, byQuestion)
	if math.Abs(got-2.0/3.0) > 0.001 {
		t.Errorf("Expected ratio 2/3, got %f", got)
	}
}

func TestIdealExtremeRatioNoAnswers(t *testing.T) {
	sdQuestions := []models.Question{{ID: 1}}
	if got := idealExtremeRatio(sdQuestions, map[uint]models.Response{}); got != 0 {
		t.Errorf("Expected ratio 0 when nothing is answered, got %f", got)
	}
}
