//go:build !windows
// +build !windows

package hrtime

import (
	"time"

	"github.com/samber/lo"
	"golang.org/x/sys/unix"
)

func MonotonicNanos() int64 {
	ts := unix.Timespec{}
	lo.Must0(unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts))
	return ts.Nano()
}

type unixStopwatch struct {
	startTs int64
	lapTs   int64
}

func (sw *unixStopwatch) Elapsed() time.Duration {
	return time.Duration(MonotonicNanos() - sw.startTs)
}

// Lap returns the time since the previous lap (or the start).
func (sw *unixStopwatch) Lap() time.Duration {
	now := MonotonicNanos()
	d := time.Duration(now - sw.lapTs)
	sw.lapTs = now
	return d
}

func (sw *unixStopwatch) Reset() {
	sw.startTs = MonotonicNanos()
	sw.lapTs = sw.startTs
}

func NewStopwatch() Stopwatch {
	sw := &unixStopwatch{}
	sw.Reset()
	return sw
}
