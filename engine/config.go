package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
)

type Config struct {
	// The application name used in windowing and logs.
	Name     string `toml:"name" yaml:"name"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// Window starting position, if applicable.
	StartPosX int `toml:"start_pos_x" yaml:"start_pos_x"`
	StartPosY int `toml:"start_pos_y" yaml:"start_pos_y"`

	// Directory the content manager indexes. Relative to the working directory.
	ContentRoot  string `toml:"content_root" yaml:"content_root"`
	WatchContent bool   `toml:"watch_content" yaml:"watch_content"`

	IsFixedTimeStep bool `toml:"fixed_time_step" yaml:"fixed_time_step"`
	// Frame duration the fixed time step waits for.
	TargetElapsedMS float64 `toml:"target_elapsed_ms" yaml:"target_elapsed_ms"`
	// Upper bound of the delta handed to components.
	MaxElapsedMS float64 `toml:"max_elapsed_ms" yaml:"max_elapsed_ms"`
	// Sleep between message pumps while the game is paused.
	InactiveSleepMS float64 `toml:"inactive_sleep_ms" yaml:"inactive_sleep_ms"`

	Graphics graphics.Parameters `toml:"graphics" yaml:"graphics"`

	JobWorkers   int `toml:"job_workers" yaml:"job_workers"`
	JobQueueSize int `toml:"job_queue_size" yaml:"job_queue_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:            "Kiln",
		LogLevel:        "info",
		StartPosX:       100,
		StartPosY:       100,
		ContentRoot:     "assets",
		IsFixedTimeStep: true,
		TargetElapsedMS: 1000.0 / 60.0,
		MaxElapsedMS:    500,
		InactiveSleepMS: 20,
		Graphics:        graphics.DefaultParameters(),
		JobWorkers:      2,
		JobQueueSize:    64,
	}
}

// LoadConfig reads a .toml, .yaml or .yml file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported config format '%s'", core.ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %s", core.ErrInvalidConfig, err)
	}
	if c.IsFixedTimeStep && c.TargetElapsedMS <= 0 {
		return fmt.Errorf("%w: target_elapsed_ms must be positive with a fixed time step", core.ErrInvalidConfig)
	}
	if c.MaxElapsedMS < 0 {
		return fmt.Errorf("%w: max_elapsed_ms must not be negative", core.ErrInvalidConfig)
	}
	if c.InactiveSleepMS < 0 {
		return fmt.Errorf("%w: inactive_sleep_ms must not be negative", core.ErrInvalidConfig)
	}
	if c.JobWorkers < 1 {
		return fmt.Errorf("%w: job_workers must be at least 1", core.ErrInvalidConfig)
	}
	if c.JobQueueSize < 0 {
		return fmt.Errorf("%w: job_queue_size must not be negative", core.ErrInvalidConfig)
	}
	if err := c.Graphics.Validate(); err != nil {
		return fmt.Errorf("%w: graphics: %s", core.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) TargetElapsedTime() time.Duration {
	return msToDuration(c.TargetElapsedMS)
}

func (c *Config) MaxElapsedTime() time.Duration {
	return msToDuration(c.MaxElapsedMS)
}

func (c *Config) InactiveSleepTime() time.Duration {
	return msToDuration(c.InactiveSleepMS)
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
