package jobs

import (
	"context"
	"errors"
	"log/slog"

	"mealmatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AssignmentSweepJob drains the intake queue in the background.
// Runs every second and assigns the oldest unassigned order to a provider, so
// orders that arrived while their zone was out of capacity get picked up as
// soon as a slot frees.
type AssignmentSweepJob struct {
	handler commands.AssignOrderCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAssignmentSweepJob creates a new sweep job over the assignment workflow.
func NewAssignmentSweepJob(handler commands.AssignOrderCommandHandler, logger *slog.Logger) *AssignmentSweepJob {
	return &AssignmentSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "assignment_sweep_job"),
	}
}

// Start begins the sweep job to run every second.
func (j *AssignmentSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewAssignOrderCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build sweep command", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			// An empty queue and a zone without capacity are expected
			// outcomes, not failures.
			if !errors.Is(handleErr, commands.ErrNoOrderFound) &&
				!errors.Is(handleErr, commands.ErrNoEligibleProviderFound) {
				j.logger.ErrorContext(ctx, "Assignment sweep failed", "error", handleErr)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment sweep job started (running every second)")
	return nil
}

// Stop stops the sweep job.
func (j *AssignmentSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment sweep job stopped")
}
