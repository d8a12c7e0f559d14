// Package leaktest checks that background goroutines (hubs, pools, retry
// loops) are gone once their owner has been stopped.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = time.Second
	pollInterval  = 10 * time.Millisecond
)

// GoroutineChecker compares the goroutine count against a baseline.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count as the baseline.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Leaked reports how many goroutines exist above the baseline right now.
func (g *GoroutineChecker) Leaked() int {
	return runtime.NumGoroutine() - g.before
}

// Check waits up to a second for the count to return within tolerance of the
// baseline and fails the test if it does not.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(settleTimeout)
	for {
		leaked := g.Leaked()
		if leaked <= tolerance {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
				g.before, g.before+leaked, leaked, tolerance)
			return
		}
		time.Sleep(pollInterval)
	}
}
