package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/models"
)

const DefaultAutoReminderSpec = "0 9 5 * *"

type AutoReminderLogger interface {
	LogAutoReminders(month int, year int) ([]models.ReminderLog, WriteReport, error)
}

// ReminderScheduler logs monthly auto reminders on a cron schedule. The
// building feature flag is checked on every run.
type ReminderScheduler struct {
	cron      *cron.Cron
	reminders AutoReminderLogger
	spec      string
	location  *time.Location
	now       func() time.Time
	logger    logrus.FieldLogger
}

func NewReminderScheduler(reminders AutoReminderLogger, spec string, location *time.Location, logger logrus.FieldLogger) *ReminderScheduler {
	if spec == "" {
		spec = DefaultAutoReminderSpec
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReminderScheduler{
		cron:      cron.New(cron.WithLocation(location)),
		reminders: reminders,
		spec:      spec,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

func (scheduler *ReminderScheduler) Start() error {
	if _, err := scheduler.cron.AddFunc(scheduler.spec, func() {
		scheduler.RunOnce()
	}); err != nil {
		return fmt.Errorf("schedule auto reminders %q: %w", scheduler.spec, err)
	}
	scheduler.cron.Start()
	scheduler.logger.WithField("spec", scheduler.spec).Info("auto reminder scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (scheduler *ReminderScheduler) Stop() {
	ctx := scheduler.cron.Stop()
	<-ctx.Done()
	scheduler.logger.Info("auto reminder scheduler stopped")
}

// RunOnce logs reminders for the current month in the scheduler location.
func (scheduler *ReminderScheduler) RunOnce() int {
	current := scheduler.now().In(scheduler.location)
	logs, report, err := scheduler.reminders.LogAutoReminders(int(current.Month())-1, current.Year())
	if err != nil {
		scheduler.logger.WithError(err).Error("auto reminders failed")
		return 0
	}
	entry := scheduler.logger.WithFields(logrus.Fields{
		"month":     int(current.Month()) - 1,
		"year":      current.Year(),
		"reminders": len(logs),
	})
	if report.Degraded() {
		entry.Warn("auto reminders logged but not persisted")
	} else if len(logs) > 0 {
		entry.Info("auto reminders logged")
	}
	return len(logs)
}

// ValidateCronSpec reports whether spec parses as a standard five-field
// cron expression or descriptor.
func ValidateCronSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}
