package stress

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	StressStatsName = "llrb/stress"
)

// A nil *workloadStats records nothing.
type workloadStats struct {
	opCount        metric.Int64Counter
	violationCount metric.Int64Counter
	runCount       metric.Int64Counter
	opLatencies    metric.Int64Histogram
	heights        metric.Int64Histogram
}

func (stats *workloadStats) IncreaseOpCount(op OpKind, changed bool) {
	if stats == nil {
		return
	}
	stats.opCount.Add(context.Background(), 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.String("llrb.op", op.String()),
		attribute.Bool("llrb.op.changed", changed),
	)))
}

func (stats *workloadStats) IncreaseViolationCount(op OpKind) {
	if stats == nil {
		return
	}
	stats.violationCount.Add(context.Background(), 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.String("llrb.op", op.String()),
	)))
}

func (stats *workloadStats) IncreaseRunCount(failed bool) {
	if stats == nil {
		return
	}
	stats.runCount.Add(context.Background(), 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.Bool("llrb.run.failed", failed),
	)))
}

func (stats *workloadStats) RecordOpLatency(op OpKind, latency time.Duration) {
	if stats == nil {
		return
	}
	stats.opLatencies.Record(context.Background(), latency.Nanoseconds(), metric.WithAttributeSet(attribute.NewSet(
		attribute.String("llrb.op", op.String()),
	)))
}

func (stats *workloadStats) RecordHeight(height int64) {
	if stats == nil {
		return
	}
	stats.heights.Record(context.Background(), height)
}

func newWorkloadStats(name string) *workloadStats {
	meterName := fmt.Sprintf("%s/%s", StressStatsName, name)
	return &workloadStats{
		opCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"llrb.op.count",
				metric.WithDescription("The number of tree operations."),
			),
		),
		violationCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"llrb.violation.count",
				metric.WithDescription("The number of steps that broke the tree invariants or the oracle."),
			),
		),
		runCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"llrb.run.count",
				metric.WithDescription("The number of finished workloads."),
			),
		),
		opLatencies: lo.Must[metric.Int64Histogram](otel.Meter(meterName).
			Int64Histogram(
				"llrb.op.latency",
				metric.WithDescription("The latency of a single tree operation. In nanoseconds."),
				metric.WithUnit("ns"),
			),
		),
		heights: lo.Must[metric.Int64Histogram](otel.Meter(meterName).
			Int64Histogram(
				"llrb.tree.height",
				metric.WithDescription("The max tree height reached by a workload."),
			),
		),
	}
}
