package config

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// NewScheduler builds the background job scheduler. The single job logs the
// previous day's attendance summary shortly after midnight so unclosed
// records show up in the morning logs.
func NewScheduler(logger *logrus.Logger, dailySummaryJob func()) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.Local)

	if _, err := scheduler.Every(1).Day().At("00:15").Do(dailySummaryJob); err != nil {
		logger.Errorf("Failed to schedule daily summary job: %v", err)
		return nil, err
	}

	return scheduler, nil
}
