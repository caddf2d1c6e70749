package testbed

import (
	"fmt"
	"math"

	"github.com/spaghettifunk/kiln/engine/component"
	"github.com/spaghettifunk/kiln/engine/content"
	"github.com/spaghettifunk/kiln/engine/core"
)

const spinnerSettings = "settings/spinner.toml"

// Spinner turns at a configurable speed. Space reverses the direction.
type Spinner struct {
	component.Updater

	// radians per second
	speed     float64
	direction float64
	angle     float64
}

func NewSpinner() *Spinner {
	return &Spinner{speed: math.Pi, direction: 1}
}

func (s *Spinner) Name() string {
	return "testbed.spinner"
}

func (s *Spinner) Initialize() error {
	core.LogDebug("spinner initialized")
	return nil
}

func (s *Spinner) LoadContent(cm *content.Manager) error {
	if _, ok := cm.Info(spinnerSettings); !ok {
		core.LogWarn("'%s' not found, spinning at %.2f rad/s", spinnerSettings, s.speed)
		return nil
	}
	doc, err := content.LoadAs[map[string]any](cm, spinnerSettings)
	if err != nil {
		return err
	}
	speed, err := number(doc["speed"])
	if err != nil {
		return fmt.Errorf("%s: speed: %w", spinnerSettings, err)
	}
	s.speed = speed
	core.LogInfo("spinner speed set to %.2f rad/s", s.speed)
	return nil
}

func (s *Spinner) UnloadContent() error {
	return nil
}

func (s *Spinner) Update(gt core.GameTime) error {
	s.angle += s.direction * s.speed * gt.Elapsed.Seconds()
	s.angle = math.Mod(s.angle, 2*math.Pi)
	if s.angle < 0 {
		s.angle += 2 * math.Pi
	}
	return nil
}

func (s *Spinner) HandleKey(e core.KeyEvent) {
	if e.KeyCode == core.KEY_SPACE && e.Pressed && !e.Repeat {
		s.direction = -s.direction
	}
}

// Angle returns the current angle in radians, in [0, 2π).
func (s *Spinner) Angle() float64 {
	return s.angle
}

func (s *Spinner) Speed() float64 {
	return s.speed
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
