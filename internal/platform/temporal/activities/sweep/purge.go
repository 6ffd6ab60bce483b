package sweep

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
)

// PurgeIdleActivityName evicts device storage that has not been written since a cutoff.
const PurgeIdleActivityName = "storage.activities.PurgeIdle"

// PurgeIdleInput carries the cutoff computed by the workflow.
type PurgeIdleInput struct {
	Cutoff time.Time
}

// Activities groups activities that operate on durable device storage.
type Activities struct {
	evictor storage.Evictor
}

func NewActivities(evictor storage.Evictor) *Activities {
	return &Activities{evictor: evictor}
}

// PurgeIdle drops idle namespaces. Evicting twice is harmless, so retries need no heartbeat bookkeeping.
func (a *Activities) PurgeIdle(ctx context.Context, input PurgeIdleInput) (storage.SweepReport, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.evictor == nil {
		logger.Error("purge idle activity not initialized")
		return storage.SweepReport{}, errors.New("purge idle activity not initialized")
	}
	logger.Info("PurgeIdle activity started", "cutoff", input.Cutoff)
	evicted, err := a.evictor.PurgeIdle(ctx, input.Cutoff)
	if err != nil {
		logger.Error("PurgeIdle activity failed", "cutoff", input.Cutoff, "error", err)
		return storage.SweepReport{}, err
	}
	if evicted == nil {
		evicted = []string{}
	}
	logger.Info("PurgeIdle activity completed", "evicted", len(evicted))
	return storage.SweepReport{Cutoff: input.Cutoff, Namespaces: evicted}, nil
}
