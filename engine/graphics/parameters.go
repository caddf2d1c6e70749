package graphics

import (
	"errors"
	"fmt"
)

var ErrInvalidParameters = errors.New("invalid graphics parameters")

// Parameters describe the back buffer and presentation settings. The same
// value flows through the parameters hook, the window and the device during
// initialization, and each of them may adjust it.
type Parameters struct {
	Width       int  `toml:"width" yaml:"width"`
	Height      int  `toml:"height" yaml:"height"`
	VSync       bool `toml:"vsync" yaml:"vsync"`
	BufferCount int  `toml:"buffer_count" yaml:"buffer_count"`
	Fullscreen  bool `toml:"fullscreen" yaml:"fullscreen"`
	RefreshRate int  `toml:"refresh_rate" yaml:"refresh_rate"`
	SampleCount int  `toml:"sample_count" yaml:"sample_count"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Width:       1280,
		Height:      720,
		VSync:       true,
		BufferCount: 2,
		RefreshRate: 60,
		SampleCount: 1,
	}
}

func (p Parameters) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidParameters, p.Width, p.Height)
	}
	if p.BufferCount < 1 {
		return fmt.Errorf("%w: buffer_count %d", ErrInvalidParameters, p.BufferCount)
	}
	if p.SampleCount < 1 {
		return fmt.Errorf("%w: sample_count %d", ErrInvalidParameters, p.SampleCount)
	}
	if p.RefreshRate < 0 {
		return fmt.Errorf("%w: refresh_rate %d", ErrInvalidParameters, p.RefreshRate)
	}
	return nil
}

func (p Parameters) AspectRatio() float64 {
	if p.Height == 0 {
		return 0
	}
	return float64(p.Width) / float64(p.Height)
}
