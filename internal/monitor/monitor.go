package monitor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertType identifies the anomaly class an alert reports
type AlertType string

const (
	AlertResponseSpeed     AlertType = "response_speed"
	AlertExcessivePauses   AlertType = "excessive_pauses"
	AlertTimeOverrun       AlertType = "time_overrun"
	AlertRecordingInactive AlertType = "recording_inactive"
)

// Severity ranks an alert for the proctor UI
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Alert is one emitted proctoring alert
type Alert struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is the live snapshot a session's client reports and the
// monitor evaluates each tick
type SessionState struct {
	AssessmentID      uint `json:"assessment_id" validate:"required"`
	ElapsedSeconds    int  `json:"elapsed_seconds" validate:"min=0"`
	AnsweredCount     int  `json:"answered_count" validate:"min=0"`
	TotalQuestions    int  `json:"total_questions" validate:"min=1"`
	IsPaused          bool `json:"is_paused"`
	PauseCount        int  `json:"pause_count"`
	RecordingExpected bool `json:"recording_expected"`
	IsRecordingActive bool `json:"is_recording_active"`
}

// Evaluation thresholds. Average seconds per answered question decides the
// speed tier; pause counts and elapsed-time multiples decide the rest.
const (
	speedMinAnswers       = 5
	speedMediumMinAnswers = 20
	speedCriticalSecs     = 3
	speedHighSecs         = 5
	speedMediumSecs       = 10

	pauseHighCount   = 5
	pauseMediumCount = 3

	overrunFactor = 3

	recordingMinAnswers = 10
)

// candidate is an alert the rules want to raise this tick, before
// cooldown filtering
type candidate struct {
	alertType AlertType
	severity  Severity
	message   string
}

// evaluate applies all alert rules to a state snapshot. At most one speed
// candidate is produced, the highest tier that matches.
func evaluate(state SessionState, expectedPerQuestion time.Duration) []candidate {
	var out []candidate

	if state.AnsweredCount >= speedMinAnswers {
		avg := float64(state.ElapsedSeconds) / float64(state.AnsweredCount)
		switch {
		case avg < speedCriticalSecs:
			out = append(out, candidate{
				alertType: AlertResponseSpeed,
				severity:  SeverityCritical,
				message:   fmt.Sprintf("Average response time %.1fs per question is below %ds", avg, speedCriticalSecs),
			})
		case avg < speedHighSecs:
			out = append(out, candidate{
				alertType: AlertResponseSpeed,
				severity:  SeverityHigh,
				message:   fmt.Sprintf("Average response time %.1fs per question is below %ds", avg, speedHighSecs),
			})
		case avg < speedMediumSecs && state.AnsweredCount >= speedMediumMinAnswers:
			out = append(out, candidate{
				alertType: AlertResponseSpeed,
				severity:  SeverityMedium,
				message:   fmt.Sprintf("Average response time %.1fs per question is below %ds", avg, speedMediumSecs),
			})
		}
	}

	switch {
	case state.PauseCount >= pauseHighCount:
		out = append(out, candidate{
			alertType: AlertExcessivePauses,
			severity:  SeverityHigh,
			message:   fmt.Sprintf("Session paused %d times", state.PauseCount),
		})
	case state.PauseCount >= pauseMediumCount:
		out = append(out, candidate{
			alertType: AlertExcessivePauses,
			severity:  SeverityMedium,
			message:   fmt.Sprintf("Session paused %d times", state.PauseCount),
		})
	}

	if state.TotalQuestions > 0 {
		planned := state.TotalQuestions * int(expectedPerQuestion.Seconds())
		if state.ElapsedSeconds > overrunFactor*planned && 2*state.AnsweredCount < state.TotalQuestions {
			out = append(out, candidate{
				alertType: AlertTimeOverrun,
				severity:  SeverityMedium,
				message:   fmt.Sprintf("Elapsed %ds exceeds %d times the planned %ds with less than half the questions answered", state.ElapsedSeconds, overrunFactor, planned),
			})
		}
	}

	if state.RecordingExpected && !state.IsRecordingActive && state.AnsweredCount > recordingMinAnswers {
		out = append(out, candidate{
			alertType: AlertRecordingInactive,
			severity:  SeverityLow,
			message:   "Screen recording stopped while the session is in progress",
		})
	}

	return out
}
