package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody  = "Invalid request body"
	ErrMsgInvalidAssessmentID = "Invalid assessment ID"
	ErrMsgInvalidQuestionID   = "Invalid question ID"
	ErrMsgInvalidSessionID    = "Invalid session ID"
	ErrMsgEmployeeIDNotFound  = "Employee ID not found"
	ErrMsgSessionNotFound     = "Monitor session not found"
)
