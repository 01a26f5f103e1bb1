package scheduler

import (
	"log/slog"
	"time"

	"pir-integrity/internal/config"
	"pir-integrity/internal/models"
)

// AssessmentSweepStore is the repository surface the sweeper needs
type AssessmentSweepStore interface {
	ListInactiveSince(cutoff time.Time) ([]models.Assessment, error)
	UpdateStatus(assessmentID uint, status models.AssessmentStatus) error
}

// Scheduler handles periodic tasks
type Scheduler struct {
	assessments AssessmentSweepStore
	config      *config.SchedulerConfig
	stopChan    chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(assessments AssessmentSweepStore, cfg *config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		assessments: assessments,
		config:      cfg,
		stopChan:    make(chan bool),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"sweeper_enabled", s.config.EnableSweeper,
		"inactivity_window", s.config.InactivityWindow,
		"sweep_interval", s.config.SweepInterval)

	if s.config.EnableSweeper {
		go s.scheduleIntervalTask(s.config.SweepInterval, "abandonment_sweep", s.sweepAbandoned)
	}

	slog.Info("Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping scheduler")
	close(s.stopChan)
}

// scheduleIntervalTask runs a task at regular intervals
func (s *Scheduler) scheduleIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Starting interval task", "task", taskName, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	slog.Info("Running interval task", "task", taskName)
	task()

	for {
		select {
		case <-ticker.C:
			slog.Info("Running interval task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// sweepAbandoned marks open assessments without recent activity as abandoned
func (s *Scheduler) sweepAbandoned() {
	cutoff := time.Now().Add(-s.config.InactivityWindow)

	assessments, err := s.assessments.ListInactiveSince(cutoff)
	if err != nil {
		slog.Error("Failed to list inactive assessments", "error", err)
		return
	}

	swept := 0
	for _, assessment := range assessments {
		if err := s.assessments.UpdateStatus(assessment.ID, models.StatusAbandoned); err != nil {
			slog.Error("Failed to abandon assessment",
				"assessment_id", assessment.ID,
				"error", err,
			)
			continue
		}

		swept++
		slog.Info("Assessment abandoned",
			"assessment_id", assessment.ID,
			"employee_id", assessment.EmployeeID,
		)
	}

	slog.Info("Abandonment sweep completed", "checked", len(assessments), "swept", swept)
}
