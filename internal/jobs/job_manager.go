package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"foodorders/internal/core/application/usecases/commands"
)

// JobManager starts and stops the background work of the service.
type JobManager struct {
	cartSweepJob     *CartSweepJob
	notificationPool *NotificationPool
}

func NewJobManager(
	sweepHandler commands.SweepIdleCartsCommandHandler,
	cartIdleTTL time.Duration,
	notificationPool *NotificationPool,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		cartSweepJob:     NewCartSweepJob(sweepHandler, cartIdleTTL, DefaultCartSweepSchedule, logger),
		notificationPool: notificationPool,
	}
}

// StartAll starts every job. On failure the jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	jm.notificationPool.Start()

	if err := jm.cartSweepJob.Start(); err != nil {
		jm.notificationPool.Stop()
		return fmt.Errorf("failed to start cart sweep job: %w", err)
	}
	return nil
}

// StopAll stops the sweeper first, then drains pending notifications.
func (jm *JobManager) StopAll() {
	jm.cartSweepJob.Stop()
	jm.notificationPool.Stop()
}
