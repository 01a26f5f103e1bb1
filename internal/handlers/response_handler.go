package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pir-integrity/internal/models"
	"pir-integrity/internal/service"
	"pir-integrity/pkg/validator"
)

// ResponseRequest represents the request body for submitting an answer
type ResponseRequest struct {
	Type           models.QuestionType `json:"type" validate:"required"`
	Value          string              `json:"value" validate:"required"`
	ResponseTimeMs int                 `json:"response_time_ms" validate:"min=0"`
}

// ResponseHandler handles answer submission requests
type ResponseHandler struct {
	responseService *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseService *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseService: responseService}
}

// SubmitResponse stores or replaces the answer to one question
// @Summary Submit response
// @Description Record an answer. Re-answering the same question replaces the earlier value.
// @Tags Responses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Param questionId path int true "Question ID"
// @Param response body ResponseRequest true "Answer payload"
// @Success 200 {object} models.Response
// @Failure 400 {object} map[string]string "Invalid answer"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Assessment closed"
// @Router /assessments/{id}/responses/{questionId} [put]
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	questionID, err := strconv.ParseUint(r.PathValue("questionId"), 10, 32)
	if err != nil {
		http.Error(w, ErrMsgInvalidQuestionID, http.StatusBadRequest)
		return
	}

	var req ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.responseService.GetAssessment(assessmentID, requesterOwnerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	answer := models.AnswerValue{Type: req.Type, Value: req.Value}
	response, err := h.responseService.RecordResponse(assessmentID, uint(questionID), answer, req.ResponseTimeMs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, response)
}
