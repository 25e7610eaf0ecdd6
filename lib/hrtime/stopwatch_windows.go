//go:build windows
// +build windows

package hrtime

import (
	"time"
)

var appStartTime = time.Now()

// The go runtime reads QueryPerformanceCounter already.
func MonotonicNanos() int64 {
	return time.Since(appStartTime).Nanoseconds()
}

type goStopwatch struct {
	startTs int64
	lapTs   int64
}

func (sw *goStopwatch) Elapsed() time.Duration {
	return time.Duration(MonotonicNanos() - sw.startTs)
}

func (sw *goStopwatch) Lap() time.Duration {
	now := MonotonicNanos()
	d := time.Duration(now - sw.lapTs)
	sw.lapTs = now
	return d
}

func (sw *goStopwatch) Reset() {
	sw.startTs = MonotonicNanos()
	sw.lapTs = sw.startTs
}

func NewStopwatch() Stopwatch {
	sw := &goStopwatch{}
	sw.Reset()
	return sw
}
