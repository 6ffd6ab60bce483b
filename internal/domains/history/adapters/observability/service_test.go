package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	historyapp "github.com/Apurer/go-gin-marketplace/internal/domains/history/application"
	historydomain "github.com/Apurer/go-gin-marketplace/internal/domains/history/domain"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage"
	"github.com/Apurer/go-gin-marketplace/internal/platform/storage/memory"
)

func TestService_PassesThroughAndRecordsViews(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	svc := New(historyapp.NewStore(storage.Namespace(memory.NewBackend(), "device-1")),
		WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")), WithSession("tab-1"))

	svc.AddToHistory(ctx, historydomain.Entry{ID: "a"})
	svc.AddToHistory(ctx, historydomain.Entry{ID: "b"})
	got := svc.GetHistory(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)

	svc.ClearHistory(ctx)
	assert.Empty(t, svc.GetHistory(ctx))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	views := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "history.store.views_recorded", views.Name)
	assert.Equal(t, int64(2), views.Data.(metricdata.Sum[int64]).DataPoints[0].Value)

	ended := recorder.Ended()
	require.NotEmpty(t, ended)
	assert.Equal(t, "HistoryStore.AddToHistory", ended[0].Name())
}
