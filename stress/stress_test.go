package stress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/n4o847/sig-datastructures-2020/xlog"
)

func TestWorkload_Validate(t *testing.T) {
	testcases := []struct {
		name string
		w    Workload
		ok   bool
	}{
		{"ok", Workload{Keys: 10, Ops: 10, InsertRatio: 0.5}, true},
		{"no keys", Workload{Keys: 0, Ops: 10, InsertRatio: 0.5}, false},
		{"negative ops", Workload{Keys: 10, Ops: -1, InsertRatio: 0.5}, false},
		{"ratio", Workload{Keys: 10, Ops: 10, InsertRatio: 1.5}, false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			err := tc.w.Validate()
			if tc.ok {
				require.NoError(tt, err)
				return
			}
			require.ErrorIs(tt, err, ErrInvalidWorkload)
		})
	}
}

func TestWorkload_Run(t *testing.T) {
	w := Workload{Seed: 1, Keys: 256, Ops: 4096, InsertRatio: 0.6}
	report, err := w.Run(context.Background(), "run-1", nil)
	require.NoError(t, err)
	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, uint64(1), report.Seed)
	require.Equal(t, w.Ops, report.Inserts+report.Removes+report.Noops)
	require.Equal(t, report.Inserts-report.Removes, report.Drained)
	require.Greater(t, report.MaxHeight, 0)

	again, err := w.Run(context.Background(), "run-2", nil)
	require.NoError(t, err)
	require.Equal(t, report.Inserts, again.Inserts)
	require.Equal(t, report.Removes, again.Removes)
	require.Equal(t, report.MaxHeight, again.MaxHeight)
}

func TestWorkload_InsertOnly(t *testing.T) {
	w := Workload{Seed: 2, Keys: 64, Ops: 1000, InsertRatio: 1}
	report, err := w.Run(context.Background(), "", nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), report.Removes)
	require.LessOrEqual(t, report.Inserts, int64(64))
	require.Equal(t, report.Inserts, report.Drained)
}

func TestWorkload_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := Workload{Seed: 3, Keys: 64, Ops: 1000, InsertRatio: 0.5}
	report, err := w.Run(ctx, "", nil)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	require.Equal(t, int64(0), report.Inserts)
}

func TestStepError(t *testing.T) {
	err := &StepError{Seed: 1, Step: 5, Op: OpRemove, Key: 9, Err: errMismatch}
	require.ErrorIs(t, err, errMismatch)
	require.Equal(t, "[stress] seed 1 step 5 remove(9): [stress] tree and oracle mismatch", err.Error())
	require.Equal(t, "drain", OpDrain.String())
	require.Equal(t, "unknown", OpKind(99).String())
}

func TestBatch(t *testing.T) {
	base := Workload{Seed: 100, Keys: 8, Ops: 16, InsertRatio: 0.5}
	workloads := Batch(10, 3, base)
	require.Len(t, workloads, 3)
	for i, w := range workloads {
		require.Equal(t, uint64(10+i), w.Seed)
		require.Equal(t, base.Keys, w.Keys)
	}
}

func TestRunner(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	out := &bytes.Buffer{}
	runner, err := NewRunner(
		WithRunnerName("test"),
		WithRunnerWorkers(4),
		WithRunnerLogger(xlog.NewXLogger(xlog.WithXLoggerOutput(out), xlog.WithXLoggerLevel(xlog.LogLevelInfo))),
		WithRunnerStats(),
	)
	require.NoError(t, err)
	defer runner.Release()

	workloads := Batch(7, 16, Workload{Keys: 128, Ops: 2048, InsertRatio: 0.55})
	workloads = append(workloads, Workload{Seed: 99, Keys: 0})
	reports, err := runner.Run(context.Background(), workloads)
	require.ErrorIs(t, err, ErrInvalidWorkload)
	require.Len(t, reports, 17)
	for i := 0; i < 16; i++ {
		require.NotNil(t, reports[i])
		require.Equal(t, workloads[i].Seed, reports[i].Seed)
		require.True(t, strings.HasPrefix(reports[i].RunID, "test."))
	}
	require.Nil(t, reports[16])
	require.Equal(t, 16, strings.Count(out.String(), "workload passed"))
	require.Equal(t, 1, strings.Count(out.String(), "workload failed"))

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var ops int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "llrb.op.count" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				ops += dp.Value
			}
		}
	}
	require.Equal(t, int64(16*2048), ops)
}

func TestNewRunner_InvalidWorkers(t *testing.T) {
	_, err := NewRunner(WithRunnerWorkers(0))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidWorkload))
}

func BenchmarkWorkload(b *testing.B) {
	w := Workload{Keys: 1024, Ops: 1024, InsertRatio: 0.5}
	for i := 0; i < b.N; i++ {
		w.Seed = uint64(i)
		if _, err := w.Run(context.Background(), "", nil); err != nil {
			b.Fatal(err)
		}
	}
}
