package testbed

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/kiln/engine"
	"github.com/spaghettifunk/kiln/engine/component"
	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/platform"
)

type updateFunc struct {
	component.Updater
	fn func()
}

func (u *updateFunc) Update(core.GameTime) error {
	u.fn()
	return nil
}

func newGame(t *testing.T) (*engine.Game, *Scene) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "settings"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "settings", "spinner.toml"), []byte("speed = 2.5\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("kiln"), 0o644))

	cfg := engine.DefaultConfig()
	cfg.LogLevel = "error"
	cfg.ContentRoot = root
	cfg.IsFixedTimeStep = false

	g, err := engine.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	scene, err := Setup(g)
	require.NoError(t, err)
	return g, scene
}

// stopWhen shuts g down after the first update for which cond holds.
func stopWhen(t *testing.T, g *engine.Game, cond func() bool) {
	t.Helper()
	u := &updateFunc{fn: func() {
		if cond() {
			g.Shutdown()
		}
	}}
	u.SetUpdateOrder(1000)
	require.NoError(t, g.Add(u))
}

func TestScene_SpinsAndClears(t *testing.T) {
	g, scene := newGame(t)

	frames := 0
	stopWhen(t, g, func() bool {
		frames++
		return frames == 5
	})
	require.NoError(t, g.Run())

	assert.Equal(t, 2.5, scene.Spinner.Speed())
	assert.Equal(t, uint8(0xff), scene.Backdrop.Colour().A)

	_, ok := g.GetComponent("testbed.spinner")
	assert.True(t, ok)
}

func TestScene_SpaceReversesSpinner(t *testing.T) {
	_, scene := newGame(t)

	scene.Spinner.HandleKey(core.KeyEvent{KeyCode: core.KEY_SPACE, Pressed: true})
	require.NoError(t, scene.Spinner.Update(core.GameTime{Elapsed: 100 * time.Millisecond}))
	assert.InDelta(t, 2*math.Pi-0.1*math.Pi, scene.Spinner.Angle(), 1e-9)
}

func TestScene_EscapeQuits(t *testing.T) {
	g, _ := newGame(t)
	window := g.Window().(*platform.Headless)

	window.Post(platform.Message{Kind: platform.MessageKey, Key: core.KEY_ESCAPE, Pressed: true})
	require.NoError(t, g.Run())
	assert.Equal(t, engine.GameStageContentUnloaded, g.Stage())
}

func TestScene_PreloadRunsAsJob(t *testing.T) {
	g, scene := newGame(t)
	window := g.Window().(*platform.Headless)

	window.Post(platform.Message{Kind: platform.MessageKey, Key: core.KEY_L, Pressed: true})
	stopWhen(t, g, func() bool { return scene.HUD.Preloaded() > 0 })
	require.NoError(t, g.Run())

	assert.Equal(t, 2, scene.HUD.Preloaded())
	assert.True(t, g.Content().IsLoaded("readme.txt"))
}
