package stress

import (
	"context"
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"time"

	"github.com/n4o847/sig-datastructures-2020/lib/hrtime"
	"github.com/n4o847/sig-datastructures-2020/lib/kv"
	"github.com/n4o847/sig-datastructures-2020/lib/queue"
	"github.com/n4o847/sig-datastructures-2020/lib/tree"
	"github.com/n4o847/sig-datastructures-2020/lib/xsort"
)

var (
	ErrInvalidWorkload = errors.New("[stress] invalid workload")
	errMismatch        = errors.New("[stress] tree and oracle mismatch")
)

// Workload is a seeded random sequence of insertions and removals over
// the key range [0, Keys). The same Workload always replays the same
// operations.
type Workload struct {
	Seed        uint64
	Keys        int64
	Ops         int64
	InsertRatio float64
}

func (w Workload) Validate() error {
	if w.Keys <= 0 {
		return fmt.Errorf("%w: keys %d", ErrInvalidWorkload, w.Keys)
	}
	if w.Ops < 0 {
		return fmt.Errorf("%w: ops %d", ErrInvalidWorkload, w.Ops)
	}
	if w.InsertRatio < 0 || w.InsertRatio > 1 {
		return fmt.Errorf("%w: insert ratio %.3f", ErrInvalidWorkload, w.InsertRatio)
	}
	return nil
}

type Report struct {
	RunID     string
	Seed      uint64
	Inserts   int64
	Removes   int64
	Noops     int64 // duplicate inserts and removals of absent keys
	Drained   int64
	MaxHeight int
	Elapsed   time.Duration
}

type OpKind uint8

const (
	OpInsert OpKind = iota
	OpRemove
	OpDrain
	OpVerify
)

func (op OpKind) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpDrain:
		return "drain"
	case OpVerify:
		return "verify"
	default:
	}
	return "unknown"
}

// StepError names the operation after which the tree went wrong.
type StepError struct {
	Seed uint64
	Step int64
	Op   OpKind
	Key  int64
	Err  error
}

func (err *StepError) Error() string {
	return fmt.Sprintf("[stress] seed %d step %d %s(%d): %v", err.Seed, err.Step, err.Op, err.Key, err.Err)
}

func (err *StepError) Unwrap() error {
	return err.Err
}

// Run replays the workload against an LLRB tree and checks every step
// with a hash set oracle. The remaining keys are drained by RemoveMin
// in the order a meldable heap pops them.
func (w Workload) Run(ctx context.Context, runID string, stats *workloadStats) (*Report, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	rng := randv2.New(randv2.NewPCG(w.Seed, w.Seed^0x9e3779b97f4a7c15))
	llrb := tree.NewLLRBTree[int64, int64]()
	oracle, err := kv.NewLinearHashSet[int64](
		kv.IntegerHashFunc[int64],
		kv.WithLinearHashSetRand(randv2.New(randv2.NewPCG(w.Seed, w.Seed))),
	)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: runID, Seed: w.Seed}
	sw := hrtime.NewStopwatch()
	fail := func(step int64, op OpKind, key int64, err error) (*Report, error) {
		stats.IncreaseViolationCount(op)
		report.Elapsed = sw.Elapsed()
		return report, &StepError{Seed: w.Seed, Step: step, Op: op, Key: key, Err: err}
	}

	for step := int64(0); step < w.Ops; step++ {
		if step&1023 == 0 {
			if err := ctx.Err(); err != nil {
				report.Elapsed = sw.Elapsed()
				return report, fmt.Errorf("[stress] seed %d stopped at step %d, %w", w.Seed, step, err)
			}
		}

		key := rng.Int64N(w.Keys)
		op := OpRemove
		if rng.Float64() < w.InsertRatio {
			op = OpInsert
		}

		sw.Lap()
		var changed, expected bool
		if op == OpInsert {
			changed = llrb.Insert(key, step)
			expected = oracle.Insert(key)
		} else {
			changed = llrb.Remove(key)
			expected = oracle.Remove(key)
		}
		stats.RecordOpLatency(op, sw.Lap())

		switch {
		case changed != expected:
			return fail(step, op, key, fmt.Errorf("%w: changed %t, expected %t", errMismatch, changed, expected))
		case !changed:
			report.Noops++
		case op == OpInsert:
			report.Inserts++
		default:
			report.Removes++
		}
		stats.IncreaseOpCount(op, changed)

		if llrb.Contains(key) != (op == OpInsert) {
			return fail(step, op, key, fmt.Errorf("%w: membership of %d", errMismatch, key))
		}
		if llrb.Len() != oracle.Len() {
			return fail(step, op, key, fmt.Errorf("%w: len %d, expected %d", errMismatch, llrb.Len(), oracle.Len()))
		}
		if err := llrb.Check(); err != nil {
			return fail(step, op, key, err)
		}
		report.MaxHeight = max(report.MaxHeight, llrb.Height())
	}
	stats.RecordHeight(int64(report.MaxHeight))

	if err := verifyInorder(llrb, oracle, rng); err != nil {
		return fail(w.Ops, OpVerify, 0, err)
	}

	heap := queue.NewOrderedMeldableHeap[int64](queue.WithMeldableHeapRand(rng))
	oracle.Foreach(func(_ int64, key int64) bool {
		heap.Insert(key)
		return true
	})
	for step := w.Ops; heap.Len() > 0; step++ {
		expected, _ := heap.Pop()
		key, _, ok := llrb.RemoveMin()
		if !ok || key != expected {
			return fail(step, OpDrain, expected, fmt.Errorf("%w: remove min got %d", errMismatch, key))
		}
		if err := llrb.Check(); err != nil {
			return fail(step, OpDrain, key, err)
		}
		report.Drained++
	}
	if llrb.Len() != 0 || llrb.Root() != nil {
		return fail(w.Ops+report.Drained, OpDrain, 0, fmt.Errorf("%w: %d keys left", errMismatch, llrb.Len()))
	}

	report.Elapsed = sw.Elapsed()
	return report, nil
}

// The inorder walk of the tree has to be the sorted oracle keys.
func verifyInorder(llrb tree.LLRBTree[int64, int64], oracle *kv.LinearHashSet[int64], rng *randv2.Rand) error {
	keys := make([]int64, 0, oracle.Len())
	oracle.Foreach(func(_ int64, key int64) bool {
		keys = append(keys, key)
		return true
	})
	xsort.QuicksortOrdered(keys, rng)

	var err error
	llrb.Foreach(func(idx int64, _ tree.RBColor, key int64, _ int64) bool {
		if idx >= int64(len(keys)) || keys[idx] != key {
			err = fmt.Errorf("%w: inorder key %d at %d", errMismatch, key, idx)
			return false
		}
		return true
	})
	return err
}
