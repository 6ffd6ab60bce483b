package sequences

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	sweepactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/sweep"
)

// RunStorageSweepSequence computes the idle cutoff from workflow time and evicts everything older.
func RunStorageSweepSequence(ctx workflow.Context, idleFor time.Duration) (storage.SweepReport, error) {
	logger := workflow.GetLogger(ctx)
	if idleFor <= 0 {
		return storage.SweepReport{}, temporal.NewNonRetryableApplicationError("idle duration must be positive", "InvalidIdleDuration", errors.New("invalid idle duration"))
	}
	cutoff := workflow.Now(ctx).Add(-idleFor)
	logger.Info("storage sweep sequence started", "cutoff", cutoff)

	purgeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}
	var report storage.SweepReport
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, purgeOptions), sweepactivities.PurgeIdleActivityName, sweepactivities.PurgeIdleInput{Cutoff: cutoff}).Get(ctx, &report)
	if err != nil {
		logger.Error("storage sweep sequence failed", "cutoff", cutoff, "error", err)
		return storage.SweepReport{}, err
	}
	logger.Info("storage sweep sequence completed", "evicted", len(report.Namespaces))
	return report, nil
}
