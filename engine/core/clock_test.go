package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock(maxElapsed time.Duration) (*Clock, *fakeTime) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(maxElapsed)
	c.now = ft.now
	return c, ft
}

func TestClock_TickBeforeStart(t *testing.T) {
	c, ft := newFakeClock(0)
	ft.advance(time.Second)

	gt := c.Tick()
	assert.Equal(t, time.Duration(0), gt.Elapsed)
	assert.Equal(t, time.Duration(0), gt.Total)
}

func TestClock_TickAccumulates(t *testing.T) {
	c, ft := newFakeClock(0)
	c.Start()

	ft.advance(10 * time.Millisecond)
	gt := c.Tick()
	assert.Equal(t, 10*time.Millisecond, gt.Elapsed)
	assert.Equal(t, 10*time.Millisecond, gt.Total)

	ft.advance(5 * time.Millisecond)
	gt = c.Tick()
	assert.Equal(t, 5*time.Millisecond, gt.Elapsed)
	assert.Equal(t, 15*time.Millisecond, gt.Total)
	assert.False(t, gt.IsRunningSlowly)
}

func TestClock_ClampsLongFrames(t *testing.T) {
	c, ft := newFakeClock(100 * time.Millisecond)
	c.Start()

	ft.advance(3 * time.Second)
	gt := c.Tick()
	assert.Equal(t, 100*time.Millisecond, gt.Elapsed)
	assert.Equal(t, 100*time.Millisecond, gt.Total)
	assert.True(t, gt.IsRunningSlowly)
	assert.Equal(t, 3*time.Second, c.WallTime())
}

func TestClock_SlowFrameAgainstTarget(t *testing.T) {
	c, ft := newFakeClock(time.Second)
	c.SetTarget(16 * time.Millisecond)
	c.Start()

	ft.advance(20 * time.Millisecond)
	assert.True(t, c.Tick().IsRunningSlowly)

	ft.advance(10 * time.Millisecond)
	assert.False(t, c.Tick().IsRunningSlowly)
}

func TestClock_RestartSkipsStoppedSpan(t *testing.T) {
	c, ft := newFakeClock(0)
	c.Start()
	ft.advance(10 * time.Millisecond)
	c.Tick()

	c.Stop()
	ft.advance(time.Minute)
	assert.False(t, c.IsStarted())

	c.Restart()
	ft.advance(2 * time.Millisecond)
	gt := c.Tick()
	assert.Equal(t, 2*time.Millisecond, gt.Elapsed)
	assert.Equal(t, 12*time.Millisecond, c.Elapsed())
}

func TestClock_SlowFrameJudgedOnWork(t *testing.T) {
	c, ft := newFakeClock(time.Second)
	c.SetTarget(16 * time.Millisecond)
	c.Start()

	// 2ms of work followed by a wait that ends slightly past the target
	for i := 0; i < 5; i++ {
		ft.advance(2 * time.Millisecond)
		c.EndFrame()
		ft.advance(15 * time.Millisecond)
		gt := c.Tick()
		assert.Equal(t, 17*time.Millisecond, gt.Elapsed)
		assert.False(t, gt.IsRunningSlowly)
	}

	ft.advance(20 * time.Millisecond)
	c.EndFrame()
	ft.advance(time.Millisecond)
	assert.True(t, c.Tick().IsRunningSlowly)

	// without EndFrame the full delta counts
	ft.advance(17 * time.Millisecond)
	assert.True(t, c.Tick().IsRunningSlowly)
}
