package testbed

import (
	"context"
	"time"

	"github.com/spaghettifunk/kiln/engine"
	"github.com/spaghettifunk/kiln/engine/component"
	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/jobs"
)

// HUD reports frame statistics and maps the debug keys:
//
//	ESC  quit
//	P    pause / resume
//	L    preload every content file in the background
type HUD struct {
	component.Updater

	game     *engine.Game
	spinner  *Spinner
	interval time.Duration
	since    time.Duration

	preloaded int
}

func NewHUD(game *engine.Game, spinner *Spinner) *HUD {
	h := &HUD{game: game, spinner: spinner, interval: time.Second}
	h.SetUpdateOrder(100)
	return h
}

func (h *HUD) Name() string {
	return "testbed.hud"
}

func (h *HUD) Update(gt core.GameTime) error {
	h.since += gt.Elapsed
	if h.since < h.interval {
		return nil
	}
	h.since = 0

	fps, frameTime := h.game.Metrics().Frame()
	x, y := h.game.Input().MousePosition()
	core.LogInfo("FPS: %5.1f(%4.1fms) Angle=%6.3f Mouse: X=%-5d Y=%-5d L=%s R=%s Slow=%t",
		fps, frameTime, h.spinner.Angle(), x, y,
		yesNo(h.game.Input().IsButtonDown(core.BUTTON_LEFT)),
		yesNo(h.game.Input().IsButtonDown(core.BUTTON_RIGHT)),
		gt.IsRunningSlowly,
	)
	return nil
}

func (h *HUD) HandleKey(e core.KeyEvent) {
	if !e.Pressed || e.Repeat {
		return
	}
	switch e.KeyCode {
	case core.KEY_ESCAPE:
		h.game.Events().Fire(core.EVENT_CODE_APPLICATION_QUIT, h, core.EventContext{})
	case core.KEY_P:
		h.game.SetRunning(!h.game.IsRunning())
		core.LogInfo("running: %t", h.game.IsRunning())
	case core.KEY_L:
		h.preloadAll()
	default:
		core.LogDebug("'%c' key pressed in window.", rune(e.KeyCode))
	}
}

func (h *HUD) preloadAll() {
	cm := h.game.Content()
	names := cm.Names()
	err := h.game.Jobs().Submit(jobs.Job{
		Name: "preload",
		Run: func() (any, error) {
			return len(names), cm.Preload(context.Background(), names...)
		},
		OnComplete: func(result any) {
			h.preloaded = result.(int)
			core.LogInfo("preloaded %d assets", h.preloaded)
		},
		OnFailure: func(err error) {
			core.LogError("preload failed: %s", err)
		},
	})
	if err != nil {
		core.LogError(err.Error())
	}
}

// Preloaded returns the asset count of the last finished preload.
func (h *HUD) Preloaded() int {
	return h.preloaded
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
