package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"pir-integrity/internal/monitor"
	"pir-integrity/pkg/validator"
)

// MonitorSessionResponse is returned when a monitoring session is opened
type MonitorSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
}

// MonitorHandler handles live proctoring session requests
type MonitorHandler struct {
	monitor *monitor.Monitor
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(m *monitor.Monitor) *MonitorHandler {
	return &MonitorHandler{monitor: m}
}

// StartSession opens a live monitoring session
// @Summary Start monitor session
// @Description Register a live proctoring session for an in-progress assessment
// @Tags Monitor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param state body monitor.SessionState true "Initial session state"
// @Success 201 {object} MonitorSessionResponse
// @Failure 400 {object} map[string]string "Invalid body"
// @Router /monitor/sessions [post]
func (h *MonitorHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var state monitor.SessionState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := validator.ValidateStruct(&state); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := h.monitor.StartSession(state)
	JSONResponseWithStatus(w, http.StatusCreated, MonitorSessionResponse{SessionID: id})
}

// UpdateSession replaces a session's live state snapshot
// @Summary Update monitor session
// @Description Report the latest elapsed time, answer count and client state
// @Tags Monitor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param state body monitor.SessionState true "Session state"
// @Success 204 "Updated"
// @Failure 400 {object} map[string]string "Invalid body"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /monitor/sessions/{id} [put]
func (h *MonitorHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	var state monitor.SessionState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.monitor.UpdateState(id, state); err != nil {
		writeMonitorError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAlerts returns the session's buffered alerts
// @Summary Get session alerts
// @Description List the most recent alerts raised for a session, oldest first
// @Tags Monitor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {array} monitor.Alert
// @Failure 404 {object} map[string]string "Session not found"
// @Router /monitor/sessions/{id}/alerts [get]
func (h *MonitorHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	alerts, err := h.monitor.Alerts(id)
	if err != nil {
		writeMonitorError(w, err)
		return
	}

	JSONResponse(w, alerts)
}

// EndSession closes a monitoring session
// @Summary End monitor session
// @Description Remove a session and discard its alert buffer
// @Tags Monitor
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204 "Ended"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /monitor/sessions/{id} [delete]
func (h *MonitorHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	if err := h.monitor.EndSession(id); err != nil {
		writeMonitorError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, ErrMsgInvalidSessionID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeMonitorError(w http.ResponseWriter, err error) {
	if errors.Is(err, monitor.ErrSessionNotFound) {
		http.Error(w, ErrMsgSessionNotFound, http.StatusNotFound)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
