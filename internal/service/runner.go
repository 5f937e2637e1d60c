package service

import (
	"context"

	"timekeeper/internal/logger"
)

// RunnerService owns the background lifetime of the scheduling stores.
type RunnerService struct {
	timers *TimerService
	alarms *AlarmService
	log    *logger.Logger
}

func NewRunnerService(timers *TimerService, alarms *AlarmService, log *logger.Logger) *RunnerService {
	if log == nil {
		log = logger.NewNop()
	}
	return &RunnerService{timers: timers, alarms: alarms, log: log}
}

// Run starts the alarm poll and blocks until ctx is canceled, then cancels
// every pending callback so nothing fires after shutdown.
func (r *RunnerService) Run(ctx context.Context) {
	r.alarms.StartPolling()
	r.log.Infow("scheduler running")

	<-ctx.Done()

	r.timers.Stop()
	r.alarms.Stop()
	r.log.Infow("scheduler stopped")
}
