package core

import "time"

const AVG_COUNT int = 30

// FrameMetrics keeps a rolling frame time average and a frames per second
// counter.
type FrameMetrics struct {
	frameAVGCounter    int
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{}
}

// Update records one frame. It reports true when the FPS value was refreshed,
// which happens once per accumulated second.
func (m *FrameMetrics) Update(frameElapsed time.Duration) bool {
	frameMS := float64(frameElapsed) / float64(time.Millisecond)
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := 0; i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	m.frames++
	m.totalFrames++

	refreshed := false
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
		refreshed = true
	}
	return refreshed
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame duration in milliseconds over the last
// AVG_COUNT frames.
func (m *FrameMetrics) FrameTime() float64 {
	return m.msAvg
}

func (m *FrameMetrics) Frames() uint64 {
	return m.totalFrames
}

func (m *FrameMetrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
