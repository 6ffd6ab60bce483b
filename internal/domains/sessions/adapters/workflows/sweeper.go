package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-marketplace/internal/domains/sessions/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	sweepworkflows "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/workflows/sweep"
)

var (
	_ ports.StorageSweeper = (*TemporalSweeper)(nil)
	_ ports.StorageSweeper = (*InlineSweeper)(nil)
)

var errInvalidIdle = errors.New("idle duration must be positive")

// TemporalSweeper runs storage sweeps as Temporal workflows.
type TemporalSweeper struct {
	client    client.Client
	taskQueue string
	now       func() time.Time
}

func NewTemporalSweeper(c client.Client) *TemporalSweeper {
	return &TemporalSweeper{client: c, taskQueue: sweepworkflows.StorageSweepTaskQueue, now: time.Now}
}

// Sweep starts the sweep workflow and waits for its report. One sweep per
// minute window is allowed; a concurrent request joins the running one.
func (s *TemporalSweeper) Sweep(ctx context.Context, idleFor time.Duration) (storage.SweepReport, error) {
	if s == nil || s.client == nil {
		return storage.SweepReport{}, errors.New("temporal storage sweeper not configured")
	}
	if idleFor <= 0 {
		return storage.SweepReport{}, errInvalidIdle
	}
	traceID := workflowTraceID(ctx)
	workflowID := sweepWorkflowID(s.now())
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                s.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := s.client.ExecuteWorkflow(ctx, options, sweepworkflows.StorageSweepWorkflowName,
		sweepworkflows.StorageSweepWorkflowInput{IdleFor: idleFor, TraceID: traceID})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return storage.SweepReport{}, err
		}
		run = s.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var report storage.SweepReport
	if err := run.Get(ctx, &report); err != nil {
		return storage.SweepReport{}, err
	}
	return report, nil
}

// InlineSweeper evicts directly against the backend, for dev setups without Temporal.
type InlineSweeper struct {
	evictor storage.Evictor
	now     func() time.Time
}

func NewInlineSweeper(evictor storage.Evictor) *InlineSweeper {
	return &InlineSweeper{evictor: evictor, now: time.Now}
}

func (s *InlineSweeper) Sweep(ctx context.Context, idleFor time.Duration) (storage.SweepReport, error) {
	if s == nil || s.evictor == nil {
		return storage.SweepReport{}, errors.New("inline storage sweeper not configured")
	}
	if idleFor <= 0 {
		return storage.SweepReport{}, errInvalidIdle
	}
	cutoff := s.now().Add(-idleFor)
	evicted, err := s.evictor.PurgeIdle(ctx, cutoff)
	if err != nil {
		return storage.SweepReport{}, err
	}
	if evicted == nil {
		evicted = []string{}
	}
	return storage.SweepReport{Cutoff: cutoff, Namespaces: evicted}, nil
}

func sweepWorkflowID(now time.Time) string {
	return fmt.Sprintf("storage-sweep-%s", now.UTC().Format("200601021504"))
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
