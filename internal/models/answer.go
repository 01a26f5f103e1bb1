package models

import (
	"fmt"
	"strconv"
)

// AnswerValue is the tagged union carried by a response submission. Exactly
// one representation is meaningful for a given question type: a 1-5 integer
// for likert_scale, a discrete option code for multiple_choice and scenario,
// and "true"/"false" for true_false. Validation happens once, at the
// response-store boundary; later stages only see stored rows.
type AnswerValue struct {
	Type  QuestionType `json:"type"`
	Value string       `json:"value"`
}

// LikertValue parses the value as a likert integer. Only valid after
// Validate has succeeded for a likert_scale question.
func (a AnswerValue) LikertValue() int {
	v, _ := strconv.Atoi(a.Value)
	return v
}

// Validate checks the answer against the question's declared type and domain.
func (a AnswerValue) Validate(q *Question) error {
	if a.Type != q.Type {
		return fmt.Errorf("answer type %q does not match question type %q", a.Type, q.Type)
	}

	switch q.Type {
	case QuestionTypeLikert:
		v, err := strconv.Atoi(a.Value)
		if err != nil {
			return fmt.Errorf("likert answer must be an integer, got %q", a.Value)
		}
		if v < LikertMin || v > LikertMax {
			return fmt.Errorf("likert answer %d outside range %d-%d", v, LikertMin, LikertMax)
		}
	case QuestionTypeTrueFalse:
		if a.Value != "true" && a.Value != "false" {
			return fmt.Errorf("true/false answer must be \"true\" or \"false\", got %q", a.Value)
		}
	case QuestionTypeMultipleChoice, QuestionTypeScenario:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d has no options configured", q.ID)
		}
		for _, opt := range q.Options {
			if opt == a.Value {
				return nil
			}
		}
		return fmt.Errorf("answer %q is not one of the declared options", a.Value)
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}

	return nil
}

// NumericValue maps the answer onto the integer stored in response_value.
// Likert answers map to their scale value; true/false to 1/0; choice and
// scenario answers to the option index (the raw code is stored alongside).
func (a AnswerValue) NumericValue(q *Question) int {
	switch q.Type {
	case QuestionTypeLikert:
		return a.LikertValue()
	case QuestionTypeTrueFalse:
		if a.Value == "true" {
			return 1
		}
		return 0
	default:
		for i, opt := range q.Options {
			if opt == a.Value {
				return i
			}
		}
		return -1
	}
}
