package core

import "time"

// FixedStep accumulates elapsed simulation time and reports how many fixed
// ticks are due. Leftover time carries over to the next Advance call, so the
// number of ticks depends only on the total time fed in.
type FixedStep struct {
	step        float64
	accumulator float64
}

// NewFixedStep constructs a FixedStep with the given tick length in seconds.
func NewFixedStep(step float64) *FixedStep {
	fs := &FixedStep{}
	fs.SetStep(step)
	return fs
}

// SetStep changes the tick length. Non-positive values fall back to 1/60 s.
func (f *FixedStep) SetStep(step float64) {
	if step <= 0 {
		step = 1.0 / 60.0
	}
	f.step = step
}

// Step returns the tick length in seconds.
func (f *FixedStep) Step() float64 { return f.step }

// Pending returns the accumulated time not yet consumed by a tick.
func (f *FixedStep) Pending() float64 { return f.accumulator }

// stepTolerance absorbs the rounding of steps that arrive as widened float32
// values, so feeding exactly one decimal step still fires one tick.
const stepTolerance = 1e-6

// Advance adds dt seconds and returns the number of ticks that became due.
func (f *FixedStep) Advance(dt float64) int {
	if dt > 0 {
		f.accumulator += dt
	}
	ticks := 0
	for f.accumulator >= f.step*(1-stepTolerance) {
		f.accumulator = max(f.accumulator-f.step, 0)
		ticks++
	}
	return ticks
}

// Reset drops any accumulated time.
func (f *FixedStep) Reset() { f.accumulator = 0 }

// FrameClock measures wall-clock time between successive frames.
type FrameClock struct {
	last     time.Time
	maxDelta float64
	now      func() time.Time
}

// NewFrameClock returns a clock that clamps single-frame deltas to maxDelta
// seconds so a stalled frame does not trigger a burst of catch-up ticks.
func NewFrameClock(maxDelta float64) *FrameClock {
	return &FrameClock{maxDelta: maxDelta, now: time.Now}
}

// Tick returns the seconds elapsed since the previous Tick. The first call
// returns zero.
func (c *FrameClock) Tick() float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	delta := now.Sub(c.last).Seconds()
	c.last = now
	if delta < 0 {
		return 0
	}
	if c.maxDelta > 0 && delta > c.maxDelta {
		return c.maxDelta
	}
	return delta
}
