package core

import "time"

// GameTime is the snapshot handed to Update and Draw every frame.
type GameTime struct {
	// Total simulated time since the clock was started, paused spans excluded.
	Total time.Duration
	// Elapsed time since the previous tick, clamped to the clock maximum.
	Elapsed time.Duration
	// IsRunningSlowly is set when the work of the previous frame overran the
	// target elapsed time or the delta had to be clamped. Time spent waiting
	// for the next fixed step does not count as work.
	IsRunningSlowly bool
}

type Clock struct {
	now func() time.Time

	startTime  time.Time
	lastTime   time.Time
	total      time.Duration
	maxElapsed time.Duration
	target     time.Duration
	started    bool

	// work is the span between the last tick and EndFrame.
	work     time.Duration
	workDone bool
}

func NewClock(maxElapsed time.Duration) *Clock {
	return &Clock{
		now:        time.Now,
		maxElapsed: maxElapsed,
	}
}

// SetTarget sets the expected frame duration used to flag slow frames. Zero
// disables the check.
func (c *Clock) SetTarget(target time.Duration) {
	c.target = target
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.lastTime = c.startTime
	c.total = 0
	c.started = true
	c.workDone = false
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.started = false
}

// Restart resumes a stopped clock without delivering the stopped span as
// delta on the next tick.
func (c *Clock) Restart() {
	c.lastTime = c.now()
	c.started = true
	c.workDone = false
}

// EndFrame marks the end of the work of the current frame. When it is
// called, the next tick judges slowness on the work span alone instead of
// the full delta.
func (c *Clock) EndFrame() {
	if !c.started {
		return
	}
	c.work = c.now().Sub(c.lastTime)
	c.workDone = true
}

func (c *Clock) IsStarted() bool {
	return c.started
}

// Tick advances the clock and returns the frame time. Has no effect on
// non-started clocks.
func (c *Clock) Tick() GameTime {
	if !c.started {
		return GameTime{Total: c.total}
	}
	now := c.now()
	delta := now.Sub(c.lastTime)
	c.lastTime = now
	if delta < 0 {
		delta = 0
	}

	span := delta
	if c.workDone {
		span = c.work
		c.workDone = false
	}
	slow := c.target > 0 && span > c.target
	if c.maxElapsed > 0 && delta > c.maxElapsed {
		delta = c.maxElapsed
		slow = true
	}
	c.total += delta

	return GameTime{
		Total:           c.total,
		Elapsed:         delta,
		IsRunningSlowly: slow,
	}
}

// Elapsed returns the total simulated time.
func (c *Clock) Elapsed() time.Duration {
	return c.total
}

// WallTime returns the real time since Start, stops included.
func (c *Clock) WallTime() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return c.now().Sub(c.startTime)
}
