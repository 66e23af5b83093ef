package jobs

import (
	"context"
	"log/slog"
	"time"

	"foodorders/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultCartSweepSchedule runs the sweep once a minute.
const DefaultCartSweepSchedule = "0 * * * * *"

// CartSweepJob removes cart sessions idle for longer than the configured TTL.
type CartSweepJob struct {
	handler  commands.SweepIdleCartsCommandHandler
	idleTTL  time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewCartSweepJob(
	handler commands.SweepIdleCartsCommandHandler,
	idleTTL time.Duration,
	schedule string,
	logger *slog.Logger,
) *CartSweepJob {
	if schedule == "" {
		schedule = DefaultCartSweepSchedule
	}
	return &CartSweepJob{
		handler:  handler,
		idleTTL:  idleTTL,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "cart_sweep_job"),
	}
}

func (j *CartSweepJob) Start() error {
	cmd, err := commands.NewSweepIdleCartsCommand(j.idleTTL)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.schedule, func() { j.run(cmd) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("cart sweep job started", "schedule", j.schedule, "idleTTL", j.idleTTL.String())
	return nil
}

func (j *CartSweepJob) run(cmd commands.SweepIdleCartsCommand) {
	ctx := context.Background()
	removed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "cart sweep failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "idle carts removed", "count", removed)
	}
}

// Stop waits for a running sweep to finish.
func (j *CartSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("cart sweep job stopped")
}
