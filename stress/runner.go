package stress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/n4o847/sig-datastructures-2020/lib/id"
	"github.com/n4o847/sig-datastructures-2020/xlog"
)

const (
	defaultWorkers     = 8
	defaultRunIDLength = 12
)

type runnerCfg struct {
	name         string
	workers      int
	logger       xlog.XLogger
	enableStats  bool
	expiryPeriod time.Duration
}

type RunnerOption func(cfg *runnerCfg)

func WithRunnerName(name string) RunnerOption {
	return func(cfg *runnerCfg) {
		cfg.name = name
	}
}

// WithRunnerWorkers limits the workloads running at the same time.
func WithRunnerWorkers(workers int) RunnerOption {
	return func(cfg *runnerCfg) {
		cfg.workers = workers
	}
}

func WithRunnerLogger(logger xlog.XLogger) RunnerOption {
	return func(cfg *runnerCfg) {
		cfg.logger = logger
	}
}

func WithRunnerStats() RunnerOption {
	return func(cfg *runnerCfg) {
		cfg.enableStats = true
	}
}

// Runner runs independent workloads on a goroutine pool. Every workload
// owns its tree, nothing is shared between the workers.
type Runner struct {
	pool   *ants.Pool
	logger xlog.XLogger
	stats  *workloadStats
	runID  id.RunIDGen
}

// Run blocks until every workload finished. The reports keep the order
// of the workloads, a failed workload leaves its partial report behind.
// The errors of all the failed workloads are combined.
func (r *Runner) Run(ctx context.Context, workloads []Workload) ([]*Report, error) {
	reports := make([]*Report, len(workloads))
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		merr error
	)
	for i, w := range workloads {
		runID := r.runID()
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			report, err := w.Run(ctx, runID, r.stats)
			reports[i] = report
			r.stats.IncreaseRunCount(err != nil)
			if err != nil {
				r.logger.Error(err, "workload failed",
					zap.String("runID", runID),
					zap.Uint64("seed", w.Seed),
				)
				lock.Lock()
				merr = multierr.Append(merr, err)
				lock.Unlock()
				return
			}
			r.logger.Info("workload passed",
				zap.String("runID", runID),
				zap.Uint64("seed", w.Seed),
				zap.Int64("inserts", report.Inserts),
				zap.Int64("removes", report.Removes),
				zap.Int64("noops", report.Noops),
				zap.Int("maxHeight", report.MaxHeight),
				zap.Duration("elapsed", report.Elapsed),
			)
		}); err != nil {
			wg.Done()
			lock.Lock()
			merr = multierr.Append(merr, fmt.Errorf("[stress] submit workload seed %d failed, %w", w.Seed, err))
			lock.Unlock()
		}
	}
	wg.Wait()
	return reports, merr
}

func (r *Runner) Release() {
	r.pool.Release()
}

func NewRunner(opts ...RunnerOption) (*Runner, error) {
	cfg := &runnerCfg{
		name:         "default",
		workers:      defaultWorkers,
		expiryPeriod: time.Second,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.workers <= 0 {
		return nil, fmt.Errorf("[stress] workers %d must be positive", cfg.workers)
	}
	if cfg.logger == nil {
		cfg.logger = xlog.NewXLogger(xlog.WithXLoggerLevel(xlog.LogLevelError))
	}
	logger := cfg.logger.Named("stress")

	runID, err := id.NanoRunID(cfg.name, defaultRunIDLength)
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(cfg.workers,
		ants.WithPreAlloc(true),
		ants.WithExpiryDuration(cfg.expiryPeriod),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		pool:   pool,
		logger: logger,
		runID:  runID,
	}
	if cfg.enableStats {
		r.stats = newWorkloadStats(cfg.name)
	}
	return r, nil
}

// Batch derives runs workloads from base, the i-th one is seeded by
// seed + i.
func Batch(seed uint64, runs int, base Workload) []Workload {
	workloads := make([]Workload, 0, runs)
	for i := 0; i < runs; i++ {
		w := base
		w.Seed = seed + uint64(i)
		workloads = append(workloads, w)
	}
	return workloads
}
