package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/n4o847/sig-datastructures-2020/observability"
	"github.com/n4o847/sig-datastructures-2020/stress"
	"github.com/n4o847/sig-datastructures-2020/xlog"
)

const envPrefix = "LLRBSTRESS_"

type config struct {
	workers     int
	runs        int
	keys        int64
	ops         int64
	insertRatio float64
	seed        uint64
	logLevel    xlog.LogLevel
	metrics     observability.MetricsExporterType
	metricsAddr string
}

func (cfg *config) workload() stress.Workload {
	return stress.Workload{
		Seed:        cfg.seed,
		Keys:        cfg.keys,
		Ops:         cfg.ops,
		InsertRatio: cfg.insertRatio,
	}
}

// A flag left unset takes LLRBSTRESS_<NAME> from the environment,
// dashes become underscores.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func parseConfig(args []string, lookupEnv func(string) (string, bool)) (*config, error) {
	fs := pflag.NewFlagSet("llrbstress", pflag.ContinueOnError)
	fs.SortFlags = false
	workers := fs.IntP("workers", "w", 8, "workloads running at the same time")
	runs := fs.IntP("runs", "n", 32, "number of workloads")
	keys := fs.Int64P("keys", "k", 1024, "keys are drawn from [0, keys)")
	ops := fs.Int64P("ops", "o", 100000, "operations per workload")
	insertRatio := fs.Float64("insert-ratio", 0.5, "probability of an insertion")
	seed := fs.Uint64("seed", 1, "seed of the first workload, the i-th one uses seed+i")
	logLevel := fs.String("log-level", "INFO", "DEBUG, INFO, WARN or ERROR")
	metrics := fs.String("metrics", string(observability.NoneExporter), "metrics exporter: none, stdout or prometheus")
	metricsAddr := fs.String("metrics-addr", "", "prometheus /metrics listen address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var merr error
	fs.VisitAll(func(f *pflag.Flag) {
		if merr != nil || f.Changed {
			return
		}
		val, ok := lookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if err := f.Value.Set(val); err != nil {
			merr = fmt.Errorf("[llrbstress] env %s: %w", envName(f.Name), err)
		}
	})
	if merr != nil {
		return nil, merr
	}

	exporter, err := observability.ParseMetricsExporterType(*metrics)
	if err != nil {
		return nil, err
	}
	cfg := &config{
		workers:     *workers,
		runs:        *runs,
		keys:        *keys,
		ops:         *ops,
		insertRatio: *insertRatio,
		seed:        *seed,
		logLevel:    xlog.ParseLogLevel(*logLevel),
		metrics:     exporter,
		metricsAddr: *metricsAddr,
	}
	if cfg.runs < 0 {
		return nil, fmt.Errorf("[llrbstress] runs %d must not be negative", cfg.runs)
	}
	if err := cfg.workload().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mustParseConfig() *config {
	cfg, err := parseConfig(os.Args[1:], os.LookupEnv)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}
