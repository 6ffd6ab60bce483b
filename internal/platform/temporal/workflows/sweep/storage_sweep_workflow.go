package sweep

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	"github.com/Apurer/go-gin-marketplace/internal/platform/temporal/sequences"
)

const (
	// StorageSweepWorkflowName is the public identifier for registering the workflow.
	StorageSweepWorkflowName = "storage.workflows.Sweep"
	// StorageSweepTaskQueue is the queue consumed by the worker running storage sweeps.
	StorageSweepTaskQueue = "STORAGE_SWEEP"
)

// StorageSweepWorkflowInput captures how long device storage may stay idle.
type StorageSweepWorkflowInput struct {
	IdleFor time.Duration
	TraceID string
}

// StorageSweepWorkflow evicts device storage that has been idle for longer than input.IdleFor.
func StorageSweepWorkflow(ctx workflow.Context, input StorageSweepWorkflowInput) (storage.SweepReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("StorageSweepWorkflow started", withTraceID(input.TraceID, "idleFor", input.IdleFor.String())...)
	report, err := sequences.RunStorageSweepSequence(ctx, input.IdleFor)
	if err != nil {
		logger.Error("StorageSweepWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return storage.SweepReport{}, err
	}
	logger.Info("StorageSweepWorkflow completed", withTraceID(input.TraceID, "evicted", len(report.Namespaces))...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

// RegisterOptions names the workflow for worker registration.
func RegisterOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: StorageSweepWorkflowName}
}
