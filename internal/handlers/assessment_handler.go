package handlers

import (
	"net/http"
	"strconv"

	"pir-integrity/internal/middleware"
	"pir-integrity/internal/service"
)

// AssessmentHandler handles assessment lifecycle requests
type AssessmentHandler struct {
	responseService *service.ResponseService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(responseService *service.ResponseService) *AssessmentHandler {
	return &AssessmentHandler{responseService: responseService}
}

// CreateAssessment opens a new assessment for the authenticated employee
// @Summary Create assessment
// @Description Open a new integrity assessment. An employee can have at most one open assessment.
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Assessment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Open assessment exists"
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.GetEmployeeID(r)
	if !ok {
		http.Error(w, ErrMsgEmployeeIDNotFound, http.StatusUnauthorized)
		return
	}

	assessment, err := h.responseService.CreateAssessment(employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponseWithStatus(w, http.StatusCreated, assessment)
}

// GetMyAssessments lists the authenticated employee's assessments
// @Summary Get own assessments
// @Description List all assessments of the authenticated employee
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Assessment
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /assessments [get]
func (h *AssessmentHandler) GetMyAssessments(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.GetEmployeeID(r)
	if !ok {
		http.Error(w, ErrMsgEmployeeIDNotFound, http.StatusUnauthorized)
		return
	}

	assessments, err := h.responseService.GetEmployeeAssessments(employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, assessments)
}

// GetAssessment retrieves a single assessment
// @Summary Get assessment by ID
// @Description Get one assessment. Employees see only their own; hr_admin sees all.
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} models.Assessment
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	ownerID := requesterOwnerID(r)
	assessment, err := h.responseService.GetAssessment(assessmentID, ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, assessment)
}

// GetProgress reports answering progress for an assessment
// @Summary Get assessment progress
// @Description Report answered and missing questions for an assessment
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} models.AssessmentCompleteness
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /assessments/{id}/progress [get]
func (h *AssessmentHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := parseAssessmentID(w, r)
	if !ok {
		return
	}

	if _, err := h.responseService.GetAssessment(assessmentID, requesterOwnerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	completeness, err := h.responseService.GetCompleteness(assessmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	JSONResponse(w, completeness)
}

// parseAssessmentID reads the id path value, writing a 400 on failure
func parseAssessmentID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.Error(w, ErrMsgInvalidAssessmentID, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

// requesterOwnerID returns the employee id to enforce ownership with, or 0
// when the requester holds the hr_admin role
func requesterOwnerID(r *http.Request) uint {
	if middleware.HasRole(r, middleware.RoleHRAdmin) {
		return 0
	}
	employeeID, _ := middleware.GetEmployeeID(r)
	return employeeID
}
