package jobs

import (
	"errors"
	"fmt"
	"time"

	"biliran-rental-backend/internal/config"
	"biliran-rental-backend/internal/logger"
	"biliran-rental-backend/internal/repository"
	"biliran-rental-backend/internal/service"
)

// Job names accepted by Run and the cronjob trigger.
const (
	JobAccrueLateFees       = "accrue-late-fees"
	JobSendOverdueReminders = "send-overdue-reminders"
	JobSendPickupReminders  = "send-pickup-reminders"
	JobAllNightly           = "all-nightly"
)

var ErrUnknownJob = errors.New("unknown job")

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookingRepo repository.BookingRepository
	bookings    service.BookingService
	notifier    service.Notifier
	config      *config.Config
	loc         *time.Location
	now         func() time.Time
}

// NewJobRunner creates a new job runner. Booking state is read through the
// repository and changed only through the booking service.
func NewJobRunner(bookingRepo repository.BookingRepository, bookings service.BookingService, notifier service.Notifier, cfg *config.Config) *JobRunner {
	loc := time.UTC
	if cfg != nil {
		loc = cfg.Location()
	}
	return &JobRunner{
		bookingRepo: bookingRepo,
		bookings:    bookings,
		notifier:    notifier,
		config:      cfg,
		loc:         loc,
		now:         time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.AccrueLateFees()
	jr.SendOverdueReminders()
	jr.SendPickupReminders()
}

// Run executes one job by name.
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobAccrueLateFees:
		jr.AccrueLateFees()
	case JobSendOverdueReminders:
		jr.SendOverdueReminders()
	case JobSendPickupReminders:
		jr.SendPickupReminders()
	case JobAllNightly:
		jr.RunAllNightlyJobs()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return nil
}

// JobNames lists every name Run accepts.
func JobNames() []string {
	return []string{JobAccrueLateFees, JobSendOverdueReminders, JobSendPickupReminders, JobAllNightly}
}
