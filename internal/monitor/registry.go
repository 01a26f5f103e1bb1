package monitor

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pir-integrity/internal/config"
)

// ErrSessionNotFound is returned for unknown or closed session ids
var ErrSessionNotFound = errors.New("monitor session not found")

// session is the per-assessment live monitoring state. Alerts are kept in a
// bounded buffer, oldest dropped first.
type session struct {
	id        uuid.UUID
	state     SessionState
	alerts    []Alert
	lastFired map[AlertType]time.Time
}

// Monitor owns all live monitoring sessions and evaluates the alert rules
// once per second for each of them
type Monitor struct {
	cfg *config.MonitorConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	stopChan chan bool
}

// New creates a monitor. Call Start to begin the evaluation loop.
func New(cfg *config.MonitorConfig) *Monitor {
	return &Monitor{
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*session),
		stopChan: make(chan bool),
	}
}

// StartSession registers a new live session and returns its id
func (m *Monitor) StartSession(state SessionState) uuid.UUID {
	id := uuid.New()

	m.mu.Lock()
	m.sessions[id] = &session{
		id:        id,
		state:     state,
		lastFired: make(map[AlertType]time.Time),
	}
	m.mu.Unlock()

	slog.Info("Monitor session started", "session_id", id, "assessment_id", state.AssessmentID)
	return id
}

// UpdateState replaces a session's live snapshot. The next tick evaluates
// the new state.
func (m *Monitor) UpdateState(id uuid.UUID, state SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.state = state
	return nil
}

// Alerts returns the session's buffered alerts, newest last
func (m *Monitor) Alerts(id uuid.UUID) ([]Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out, nil
}

// EndSession removes a session and its alert buffer
func (m *Monitor) EndSession(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)

	slog.Info("Monitor session ended", "session_id", id)
	return nil
}

// Start launches the once-per-second evaluation loop
func (m *Monitor) Start() {
	slog.Info("Starting live alert monitor",
		"alert_cooldown", m.cfg.AlertCooldown,
		"max_alerts", m.cfg.MaxAlerts)

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Tick(time.Now())
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the evaluation loop. Sessions and their alerts remain readable.
func (m *Monitor) Stop() {
	slog.Info("Stopping live alert monitor")
	close(m.stopChan)
}

// Tick evaluates every session once against the clock value now
func (m *Monitor) Tick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		m.evaluateSession(s, now)
	}
}

func (m *Monitor) evaluateSession(s *session, now time.Time) {
	if s.state.IsPaused {
		return
	}

	for _, c := range evaluate(s.state, m.cfg.ExpectedPerQuestion) {
		if last, ok := s.lastFired[c.alertType]; ok && now.Sub(last) < m.cfg.AlertCooldown {
			continue
		}
		s.lastFired[c.alertType] = now

		alert := Alert{
			ID:        uuid.New(),
			SessionID: s.id,
			Type:      c.alertType,
			Severity:  c.severity,
			Message:   c.message,
			CreatedAt: now,
		}
		s.alerts = append(s.alerts, alert)
		if len(s.alerts) > m.cfg.MaxAlerts {
			s.alerts = s.alerts[len(s.alerts)-m.cfg.MaxAlerts:]
		}

		slog.Warn("Monitor alert raised",
			"session_id", s.id,
			"assessment_id", s.state.AssessmentID,
			"type", c.alertType,
			"severity", c.severity,
		)
	}
}
