package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/n4o847/sig-datastructures-2020/observability"
	"github.com/n4o847/sig-datastructures-2020/stress"
	"github.com/n4o847/sig-datastructures-2020/xlog"
)

// llrbstress replays seeded random workloads against the LLRB tree and
// exits with 1 if any of them broke the tree invariants.
func main() {
	cfg := mustParseConfig()
	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newMetricsShutdown,
			newRunner,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerBatch),
	)
	if err := app.Start(context.Background()); err != nil {
		os.Exit(reportStartFailure(os.Stderr, err))
	}
	sig := <-app.Wait()
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.Stop(stopCtx)
	os.Exit(sig.ExitCode)
}

func newLogger(cfg *config) xlog.XLogger {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(cfg.logLevel),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerWriter(xlog.StdErr),
	)
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.InfoLevel, format, args...)
	}))
	return logger
}

type metricsShutdown func(ctx context.Context) error

func newMetricsShutdown(lc fx.Lifecycle, cfg *config) (metricsShutdown, error) {
	shutdown, err := observability.NewMetricsExporter(cfg.metrics,
		observability.WithPrometheusAddr(cfg.metricsAddr),
	)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.metrics != observability.NoneExporter {
		observability.InitAppStats(ctx, "llrbstress", nil)
	}
	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return shutdown(stopCtx)
		},
	})
	return shutdown, nil
}

func newRunner(lc fx.Lifecycle, cfg *config, logger xlog.XLogger, _ metricsShutdown) (*stress.Runner, error) {
	opts := []stress.RunnerOption{
		stress.WithRunnerName("llrbstress"),
		stress.WithRunnerWorkers(cfg.workers),
		stress.WithRunnerLogger(logger),
	}
	if cfg.metrics != observability.NoneExporter {
		opts = append(opts, stress.WithRunnerStats())
	}
	runner, err := stress.NewRunner(opts...)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(runner.Release))
	return runner, nil
}

func registerBatch(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config, logger xlog.XLogger, runner *stress.Runner) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				workloads := stress.Batch(cfg.seed, cfg.runs, cfg.workload())
				logger.Info("stress batch started",
					zap.Int("runs", len(workloads)),
					zap.Int("workers", cfg.workers),
					zap.Int64("keys", cfg.keys),
					zap.Int64("ops", cfg.ops),
				)
				reports, err := runner.Run(ctx, workloads)
				exitCode := 0
				if err != nil {
					logger.Error(err, "stress batch failed")
					exitCode = 1
				}
				logger.Info("stress batch finished", zap.Int("passed", countPassed(reports, err)))
				_ = sd.Shutdown(fx.ExitCode(exitCode))
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
			_ = logger.Sync()
			return nil
		},
	})
}

// Every error stands for one failed workload.
func countPassed(reports []*stress.Report, err error) int {
	return len(reports) - len(multierr.Errors(err))
}

// The logger may not be built yet when the app fails to start.
func reportStartFailure(w io.Writer, err error) int {
	_, _ = fmt.Fprintf(w, "[llrbstress] start failed, %v\n", err)
	return 1
}
