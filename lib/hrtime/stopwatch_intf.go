package hrtime

import "time"

// Stopwatch measures elapsed time on a monotonic clock, it is never
// affected by the wall clock adjustments.
type Stopwatch interface {
	Elapsed() time.Duration
	Lap() time.Duration
	Reset()
}
