package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/n4o847/sig-datastructures-2020/observability"
	"github.com/n4o847/sig-datastructures-2020/stress"
	"github.com/n4o847/sig-datastructures-2020/xlog"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, envOf(nil))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.workers)
	require.Equal(t, 32, cfg.runs)
	require.Equal(t, int64(1024), cfg.keys)
	require.Equal(t, xlog.LogLevelInfo, cfg.logLevel)
	require.Equal(t, observability.NoneExporter, cfg.metrics)
	require.Equal(t, stress.Workload{Seed: 1, Keys: 1024, Ops: 100000, InsertRatio: 0.5}, cfg.workload())
}

func TestParseConfig_FlagsOverEnv(t *testing.T) {
	env := envOf(map[string]string{
		"LLRBSTRESS_WORKERS":      "3",
		"LLRBSTRESS_RUNS":         "5",
		"LLRBSTRESS_INSERT_RATIO": "0.25",
		"LLRBSTRESS_METRICS":      "stdout",
	})
	cfg, err := parseConfig([]string{"--runs", "9", "-k", "64", "--log-level", "warn"}, env)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.workers)
	require.Equal(t, 9, cfg.runs)
	require.Equal(t, int64(64), cfg.keys)
	require.Equal(t, 0.25, cfg.insertRatio)
	require.Equal(t, xlog.LogLevelWarn, cfg.logLevel)
	require.Equal(t, observability.StdoutExporter, cfg.metrics)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := parseConfig([]string{"--keys", "0"}, envOf(nil))
	require.ErrorIs(t, err, stress.ErrInvalidWorkload)

	_, err = parseConfig([]string{"--metrics", "statsd"}, envOf(nil))
	require.Error(t, err)

	_, err = parseConfig(nil, envOf(map[string]string{"LLRBSTRESS_WORKERS": "many"}))
	require.ErrorContains(t, err, "LLRBSTRESS_WORKERS")

	_, err = parseConfig([]string{"--help"}, envOf(nil))
	require.ErrorIs(t, err, pflag.ErrHelp)
}

func TestCountPassed(t *testing.T) {
	reports := make([]*stress.Report, 4)
	require.Equal(t, 4, countPassed(reports, nil))
	require.Equal(t, 2, countPassed(reports, multierr.Combine(errors.New("a"), errors.New("b"))))
}

func TestReportStartFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	code := reportStartFailure(buf, errors.New("metrics listener busy"))
	require.Equal(t, 1, code)
	require.Equal(t, "[llrbstress] start failed, metrics listener busy\n", buf.String())
}
