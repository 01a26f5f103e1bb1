package handlers

import (
	"net/http"

	"pir-integrity/internal/service"
)

// ScoringHandler handles scoring and result requests
type ScoringHandler struct {
	scoringService  *service.ScoringService
	responseService *service.ResponseService
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(scoringService *service.ScoringService, responseService *service.ResponseService) *ScoringHandler {
	return &ScoringHandler{
		scoringService:  scoringService,
		responseService: responseService,
	}
}

// Score runs the terminal scoring pass and completes the assessment
// @Summary Score assessment
// @Description Compute ethics indicators, overall score, risk level and moral stage. Runs once per assessment.
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} models.ScoringResult
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Already scored or preconditions unmet"
// @Router /assessments/{id}/score [post]
func (h *ScoringHandler) Score(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	if _, err := h.responseService.GetAssessment(assessmentID, requesterOwnerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.scoringService.ComputeEthicsIndicators(assessmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, result)
}

// GetResult retrieves the scoring result of a completed assessment
// @Summary Get scoring result
// @Description Get the persisted dimension scores, overall score, risk level and moral stage
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} models.ScoringResult
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /assessments/{id}/result [get]
func (h *ScoringHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	if _, err := h.responseService.GetAssessment(assessmentID, requesterOwnerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.scoringService.GetResult(assessmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, result)
}

// ResetScoring deletes a scoring result so the assessment can be re-scored
// @Summary Reset scoring
// @Description Delete the indicators and derived fields of a completed assessment (admin only)
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 204 "Reset"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/assessments/{id}/score [delete]
func (h *ScoringHandler) ResetScoring(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	if err := h.scoringService.Reset(assessmentID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
