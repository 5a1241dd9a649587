package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/taskboard-service/internal/platform/telemetry"
)

// Init tests are not parallel: they replace the global providers.

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		endpoint string
		wantErr  bool
	}{
		{name: "stdout", exporter: telemetry.ExporterStdout},
		{name: "otlp", exporter: telemetry.ExporterOTLP, endpoint: "http://localhost:4318"},
		{name: "otlp without endpoint", exporter: telemetry.ExporterOTLP, wantErr: true},
		{name: "unsupported", exporter: "zipkin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tp, err := telemetry.InitTracer(ctx, "taskboard-test", tt.exporter, tt.endpoint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			// No collector runs in unit tests, so an OTLP flush may fail.
			t.Cleanup(func() { _ = tp.Shutdown(ctx) })
			assert.NotNil(t, tp)
		})
	}
}

func TestInitTracer_SetsGlobalPropagator(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.InitTracer(ctx, "taskboard-test", telemetry.ExporterStdout, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	carrier := propagation.MapCarrier{}
	spanCtx, span := otel.Tracer("test").Start(ctx, "op")
	otel.GetTextMapPropagator().Inject(spanCtx, carrier)
	span.End()

	assert.NotEmpty(t, carrier.Get("traceparent"))
}

func TestInitMeter(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		endpoint string
		wantErr  bool
	}{
		{name: "stdout", exporter: telemetry.ExporterStdout},
		{name: "otlp", exporter: telemetry.ExporterOTLP, endpoint: "https://collector:4318"},
		{name: "otlp without endpoint", exporter: telemetry.ExporterOTLP, wantErr: true},
		{name: "unsupported", exporter: "statsd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mp, err := telemetry.InitMeter(ctx, "taskboard-test", tt.exporter, tt.endpoint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = mp.Shutdown(ctx) })
			assert.NotNil(t, mp)
		})
	}
}

func TestNewMetrics_RecordsDomainInstruments(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := telemetry.NewMetrics(mp, "taskboard-test")
	require.NoError(t, err)

	ctx := context.Background()
	m.ServerRequestTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrHTTPRoute.String("/api/v1/boards/{id}")))
	m.ServerRequestDuration.Record(ctx, 0.01)
	m.StoreOperationTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrStoreOperation.String("SaveBoard")))
	m.StoreOperationDuration.Record(ctx, 0.002)
	m.MembershipPropagations.Add(ctx, 3, metric.WithAttributes(telemetry.AttrDirection.String("add")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		assert.Equal(t, "taskboard-test", sm.Scope.Name)
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	for _, want := range []string{
		"http.server.request.duration",
		"http.server.request.total",
		"store.operation.duration",
		"store.operation.total",
		"membership.propagation.total",
	} {
		assert.True(t, names[want], "missing instrument %s", want)
	}
}
