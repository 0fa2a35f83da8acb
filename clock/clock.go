// Package clock implements the fake monotonic clock and the optional
// stdout-capture buffer used by the intrinsic dispatch layer.
package clock

import "sync/atomic"

// FakeClock is a monotonically increasing counter, incremented by exactly
// one nanosecond per read, grounded in the deterministic-for-testing policy
// of the original _clock_gettime shim: no wall-clock jitter, fully
// replayable across runs.
type FakeClock struct {
	ns atomic.Uint64
}

// NewFakeClock returns a clock starting at zero nanoseconds.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// Now returns the current reading and advances the counter by one
// nanosecond for the next call.
func (c *FakeClock) Now() uint64 {
	return c.ns.Add(1) - 1
}

// Capture accumulates bytes written to FDs 0-2 when the process
// configuration enables stdout capture, so they can be published alongside
// a call's output.
type Capture struct {
	enabled bool
	buf     []byte
}

// NewCapture returns a Capture that only accumulates bytes when enabled is
// true; when false, Write is a no-op, avoiding any buffering cost for the
// common case.
func NewCapture(enabled bool) *Capture {
	return &Capture{enabled: enabled}
}

// Write appends b to the capture buffer if capture is enabled.
func (c *Capture) Write(b []byte) {
	if !c.enabled || len(b) == 0 {
		return
	}
	c.buf = append(c.buf, b...)
}

// Bytes returns the accumulated captured bytes.
func (c *Capture) Bytes() []byte {
	return c.buf
}

// Enabled reports whether capture is active.
func (c *Capture) Enabled() bool {
	return c.enabled
}
