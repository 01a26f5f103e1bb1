package service

import (
	"math"

	"pir-integrity/internal/models"
)

// reverseScore maps a raw likert value to its reverse-scored value on the
// 1-5 scale. Out-of-range values are clamped before inversion.
func reverseScore(raw int) int {
	if raw < models.LikertMin {
		raw = models.LikertMin
	}
	if raw > models.LikertMax {
		raw = models.LikertMax
	}
	return (models.LikertMax + 1) - raw
}

// responseTimeStats computes the mean and sample standard deviation of the
// response times in milliseconds
func responseTimeStats(responses []models.Response) (mean, stdDev float64) {
	n := len(responses)
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, r := range responses {
		sum += float64(r.ResponseTimeMs)
	}
	mean = sum / float64(n)

	if n < 2 {
		return mean, 0
	}

	var sumSq float64
	for _, r := range responses {
		d := float64(r.ResponseTimeMs) - mean
		sumSq += d * d
	}
	stdDev = math.Sqrt(sumSq / float64(n-1))

	return mean, stdDev
}

// longestIdenticalRun finds the longest run of consecutive identical
// response values. Responses must already be in question display order.
func longestIdenticalRun(responses []models.Response) int {
	if len(responses) == 0 {
		return 0
	}

	longest, current := 1, 1
	for i := 1; i < len(responses); i++ {
		if responses[i].ResponseValue == responses[i-1].ResponseValue {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}

	return longest
}

// fastResponseRatio returns the fraction of responses answered faster than
// the floor, the "too fast to have read the question" heuristic
func fastResponseRatio(responses []models.Response, floorMs int) float64 {
	if len(responses) == 0 {
		return 0
	}

	fast := 0
	for _, r := range responses {
		if r.ResponseTimeMs < floorMs {
			fast++
		}
	}

	return float64(fast) / float64(len(responses))
}

// idealExtremeRatio returns the fraction of social-desirability questions
// answered at the ideal extreme: 5, or 1 for reverse-scored items.
func idealExtremeRatio(sdQuestions []models.Question, byQuestion map[uint]models.Response) float64 {
	answered, ideal := 0, 0
	for _, q := range sdQuestions {
		r, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		answered++

		extreme := models.LikertMax
		if q.ReverseScored {
			extreme = models.LikertMin
		}
		if r.ResponseValue == extreme {
			ideal++
		}
	}

	if answered == 0 {
		return 0
	}
	return float64(ideal) / float64(answered)
}
