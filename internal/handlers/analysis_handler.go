package handlers

import (
	"net/http"

	"pir-integrity/internal/service"
)

// AnalysisHandler handles pattern analysis requests
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	responseService *service.ResponseService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, responseService *service.ResponseService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		responseService: responseService,
	}
}

// RunAnalysis runs the statistical pass over a complete response set
// @Summary Run pattern analysis
// @Description Detect response-quality anomalies and cross-validation inconsistencies. Re-running replaces the prior result.
// @Tags Analysis
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} models.AnalysisSummary
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Responses incomplete"
// @Router /assessments/{id}/analysis [post]
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	if _, err := h.responseService.GetAssessment(assessmentID, requesterOwnerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	summary, err := h.analysisService.RunAnalysis(assessmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, summary)
}

// GetAnalysis retrieves the stored pattern analysis result
// @Summary Get pattern analysis
// @Description Get the stored anomaly flags and statistics for an assessment
// @Tags Analysis
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} models.PatternAnalysisResult
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Analysis not run"
// @Router /assessments/{id}/analysis [get]
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	if _, err := h.responseService.GetAssessment(assessmentID, requesterOwnerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.analysisService.GetResult(assessmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, result)
}
