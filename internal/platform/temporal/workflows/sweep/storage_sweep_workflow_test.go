package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
	sweepactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/sweep"
)

type failingEvictor struct{ calls int }

func (f *failingEvictor) PurgeIdle(context.Context, time.Time) ([]string, error) {
	f.calls++
	return nil, errors.New("database is locked")
}

func newEnv(t *testing.T, evictor storage.Evictor, start time.Time) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.SetStartTime(start)
	env.RegisterWorkflowWithOptions(StorageSweepWorkflow, RegisterOptions())
	env.RegisterActivityWithOptions(sweepactivities.NewActivities(evictor).PurgeIdle, activity.RegisterOptions{Name: sweepactivities.PurgeIdleActivityName})
	return env
}

func TestStorageSweepWorkflow_EvictsIdleNamespaces(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	writeAt := start.Add(-48 * time.Hour)
	backend := memory.NewBackend(memory.WithClock(func() time.Time { return writeAt }))
	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, "stale-device", "cart-storage", `{"state":{},"version":0}`))
	writeAt = start.Add(-time.Hour)
	require.NoError(t, backend.Put(ctx, "fresh-device", "recent-history", `[]`))

	env := newEnv(t, backend, start)
	env.ExecuteWorkflow(StorageSweepWorkflowName, StorageSweepWorkflowInput{IdleFor: 24 * time.Hour, TraceID: "trace-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var report storage.SweepReport
	require.NoError(t, env.GetWorkflowResult(&report))
	assert.Equal(t, []string{"stale-device"}, report.Namespaces)
	assert.True(t, report.Cutoff.Equal(start.Add(-24*time.Hour)), "cutoff %s", report.Cutoff)

	_, ok, err := backend.Get(ctx, "fresh-device", "recent-history")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStorageSweepWorkflow_RejectsNonPositiveIdleDuration(t *testing.T) {
	evictor := &failingEvictor{}
	env := newEnv(t, evictor, time.Now())
	env.ExecuteWorkflow(StorageSweepWorkflowName, StorageSweepWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Zero(t, evictor.calls)
}

func TestStorageSweepWorkflow_RetriesThenFails(t *testing.T) {
	evictor := &failingEvictor{}
	env := newEnv(t, evictor, time.Now())
	env.ExecuteWorkflow(StorageSweepWorkflowName, StorageSweepWorkflowInput{IdleFor: time.Hour})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, 5, evictor.calls)
}
