package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"
)

type MetricsExporterType string

const (
	NoneExporter       MetricsExporterType = "none"
	StdoutExporter     MetricsExporterType = "stdout"
	PrometheusExporter MetricsExporterType = "prometheus"
)

func ParseMetricsExporterType(typ string) (MetricsExporterType, error) {
	switch t := MetricsExporterType(typ); t {
	case NoneExporter, StdoutExporter, PrometheusExporter:
		return t, nil
	default:
	}
	return NoneExporter, fmt.Errorf("[observability] unknown metrics exporter %q", typ)
}

type exporterCfg struct {
	interval time.Duration
	timeout  time.Duration
	out      io.Writer
	addr     string
}

type MetricsExporterOption func(cfg *exporterCfg)

// WithExportInterval is the push period of the stdout exporter.
func WithExportInterval(interval, timeout time.Duration) MetricsExporterOption {
	return func(cfg *exporterCfg) {
		cfg.interval, cfg.timeout = interval, timeout
	}
}

func WithStdoutWriter(w io.Writer) MetricsExporterOption {
	return func(cfg *exporterCfg) {
		cfg.out = w
	}
}

// WithPrometheusAddr serves /metrics on addr, empty addr disables the
// HTTP endpoint.
func WithPrometheusAddr(addr string) MetricsExporterOption {
	return func(cfg *exporterCfg) {
		cfg.addr = addr
	}
}

// NewMetricsExporter installs the global meter provider, the returned
// callback flushes and shuts it down.
func NewMetricsExporter(typ MetricsExporterType, opts ...MetricsExporterOption) (func(ctx context.Context) error, error) {
	cfg := &exporterCfg{
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
	}
	for _, o := range opts {
		o(cfg)
	}
	switch typ {
	case StdoutExporter:
		stdoutOpts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
		if cfg.out != nil {
			stdoutOpts = append(stdoutOpts, stdoutmetric.WithWriter(cfg.out))
		}
		return newConsoleMetricsExporter(cfg.interval, cfg.timeout, stdoutOpts...)
	case PrometheusExporter:
		return newPrometheusMetricsExporter(cfg.addr)
	case NoneExporter:
		return func(ctx context.Context) error { return nil }, nil
	default:
	}
	return nil, fmt.Errorf("[observability] unknown metrics exporter %q", typ)
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter(addr string) (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	if addr == "" {
		return mp.Shutdown, nil
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, fmt.Errorf("[observability] prometheus listen failed, %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = srv.Serve(lis)
	}()
	return func(ctx context.Context) error {
		return multierr.Combine(srv.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
