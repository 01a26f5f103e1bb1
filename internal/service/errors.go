package service

import "errors"

// The engine's error taxonomy. All of these are deterministic validation or
// state-machine violations, surfaced directly to the caller; none are
// retried or downgraded internally.
var (
	// ErrInvalidValue means the answer is outside the declared domain for
	// the question's type. The response is not stored.
	ErrInvalidValue = errors.New("response value outside the question's declared domain")

	// ErrAssessmentClosed means a write was attempted after completion.
	ErrAssessmentClosed = errors.New("assessment is already completed")

	// ErrIncompleteResponses means analysis was requested before every
	// required question had a response. No partial analysis is returned.
	ErrIncompleteResponses = errors.New("not all required questions have been answered")

	// ErrAlreadyScored means a duplicate scoring attempt was rejected; the
	// existing result is untouched.
	ErrAlreadyScored = errors.New("assessment has already been scored")

	// ErrAtomicCommitFailure means the terminal scoring write failed and
	// rolled back, leaving the assessment in_progress for a safe retry.
	ErrAtomicCommitFailure = errors.New("scoring commit failed and was rolled back")

	// ErrAssessmentNotFound means the assessment id resolves to nothing.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrQuestionNotFound means the question id is not in the catalog.
	ErrQuestionNotFound = errors.New("question not found in catalog")

	// ErrAnalysisMissing means scoring was requested before analysis ran.
	ErrAnalysisMissing = errors.New("pattern analysis has not been run for assessment")
)
