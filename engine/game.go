package engine

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/spaghettifunk/kiln/engine/component"
	"github.com/spaghettifunk/kiln/engine/containers"
	"github.com/spaghettifunk/kiln/engine/content"
	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
	"github.com/spaghettifunk/kiln/engine/jobs"
	"github.com/spaghettifunk/kiln/engine/platform"
	"github.com/spaghettifunk/kiln/engine/services"
)

type Stage uint32

const (
	// Game has been built but never run
	GameStageConstructed Stage = iota
	// Window, device and pending components are being initialized
	GameStageInitializing
	// Initialization is complete
	GameStageInitialized
	// Contentable components are loading their content
	GameStageContentLoading
	// The loop is updating and drawing
	GameStageRunning
	// The loop only pumps messages
	GameStagePaused
	// The loop has exited
	GameStageShuttingDown
	// Content has been unloaded after the loop exited
	GameStageContentUnloaded
	// Every resource has been released
	GameStageDisposed
)

func (s Stage) String() string {
	switch s {
	case GameStageConstructed:
		return "constructed"
	case GameStageInitializing:
		return "initializing"
	case GameStageInitialized:
		return "initialized"
	case GameStageContentLoading:
		return "content-loading"
	case GameStageRunning:
		return "running"
	case GameStagePaused:
		return "paused"
	case GameStageShuttingDown:
		return "shutting-down"
	case GameStageContentUnloaded:
		return "content-unloaded"
	case GameStageDisposed:
		return "disposed"
	}
	return fmt.Sprintf("stage(%d)", uint32(s))
}

// SpinThreshold is the remaining frame time below which the fixed time step
// stops sleeping and busy-waits.
const SpinThreshold = 2 * time.Millisecond

// registration keeps what Add did for an item so that Remove can undo it.
type registration struct {
	name string

	updateEvent *component.Event
	updateSub   uuid.UUID
	drawEvent   *component.Event
	drawSub     uuid.UUID
}

// Game hosts an ordered pipeline of components and drives them with a
// fixed or variable time step loop.
type Game struct {
	cfg *Config

	services *services.Registry
	bus      *core.EventBus
	input    *core.InputDevice
	content  *content.Manager
	jobs     *jobs.System
	window   platform.Window
	device   graphics.Device
	clock    *core.Clock
	metrics  *core.FrameMetrics

	windowFactory WindowFactory
	paramsHooks   []func(*graphics.Parameters)
	contentOpts   []content.Option

	paramsMu sync.RWMutex
	params   graphics.Parameters

	stage       atomic.Uint32
	running     atomic.Bool
	paused      atomic.Bool
	shutdown    atomic.Bool
	closed      atomic.Bool
	initialized bool
	deviceReady bool

	itemsMu sync.Mutex
	items   map[any]*registration

	namesMu sync.RWMutex
	names   map[string]component.Named

	pendingMu sync.Mutex
	pending   *containers.Queue[component.Initializable]
	ready     bool

	contentMu     sync.Mutex
	contentables  []component.Contentable
	contentLoaded bool
	// loaded holds the contentables whose LoadContent succeeded.
	loaded map[component.Contentable]struct{}

	updateables *containers.OrderedList[component.Updateable]
	drawables   *containers.OrderedList[component.Drawable]

	disposeMu   sync.Mutex
	disposables []io.Closer

	// scratch buffers owned by the loop goroutine
	updateBuf []component.Updateable
	drawBuf   []component.Drawable
}

// New builds a game from cfg; a nil cfg uses DefaultConfig. The window and
// the device are initialized on the first Run.
func New(cfg *Config, opts ...Option) (*Game, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := core.ParseLogLevel(cfg.LogLevel)
	core.SetLogLevel(level)

	g := &Game{
		cfg:         cfg,
		services:    services.NewRegistry(),
		bus:         core.NewEventBus(),
		clock:       core.NewClock(cfg.MaxElapsedTime()),
		metrics:     core.NewFrameMetrics(),
		items:       make(map[any]*registration),
		names:       make(map[string]component.Named),
		loaded:      make(map[component.Contentable]struct{}),
		pending:     containers.NewQueue[component.Initializable](8),
		updateables: containers.NewOrderedList(component.CompareUpdateOrder),
		drawables:   containers.NewOrderedList(component.CompareDrawOrder),
		params:      cfg.Graphics,
	}
	g.input = core.NewInputDevice(g.bus)
	g.clock.SetTarget(cfg.TargetElapsedTime())
	g.stage.Store(uint32(GameStageConstructed))

	for _, opt := range opts {
		opt(g)
	}
	for _, hook := range g.paramsHooks {
		hook(&g.params)
	}

	if g.windowFactory == nil {
		g.window = platform.NewHeadless(cfg.Name, g.bus, g.input)
	} else {
		g.window = g.windowFactory(cfg, g.bus, g.input)
	}
	if g.device == nil {
		g.device = graphics.NewHeadlessDevice()
	}

	contentOpts := g.contentOpts
	if cfg.WatchContent {
		contentOpts = append([]content.Option{content.WithWatch()}, contentOpts...)
	}
	cm, err := content.NewManager(cfg.ContentRoot, contentOpts...)
	if err != nil {
		return nil, err
	}
	g.content = cm

	js, err := jobs.NewSystem(cfg.JobWorkers, cfg.JobQueueSize)
	if err != nil {
		cm.Close()
		return nil, err
	}
	g.jobs = js

	if err := g.registerServices(); err != nil {
		g.release()
		return nil, err
	}
	if err := g.Add(js); err != nil {
		g.release()
		return nil, err
	}

	g.bus.Register(core.EVENT_CODE_APPLICATION_QUIT, g, g.onQuit)
	g.bus.Register(core.EVENT_CODE_WINDOW_CLOSING, g, g.onQuit)
	g.bus.Register(core.EVENT_CODE_RESIZED, g, g.onResized)

	return g, nil
}

func (g *Game) registerServices() error {
	return errors.Join(
		services.AddService(g.services, g.device),
		services.AddService(g.services, g.window),
		services.AddService(g.services, g.content),
		services.AddService(g.services, g.input),
		services.AddService(g.services, g.bus),
		services.AddService(g.services, g.jobs),
	)
}

func (g *Game) Config() *Config {
	return g.cfg
}

func (g *Game) Services() *services.Registry {
	return g.services
}

func (g *Game) Events() *core.EventBus {
	return g.bus
}

func (g *Game) Input() *core.InputDevice {
	return g.input
}

func (g *Game) Content() *content.Manager {
	return g.content
}

func (g *Game) Jobs() *jobs.System {
	return g.jobs
}

func (g *Game) Window() platform.Window {
	return g.window
}

func (g *Game) Device() graphics.Device {
	return g.device
}

func (g *Game) Metrics() *core.FrameMetrics {
	return g.metrics
}

func (g *Game) Stage() Stage {
	return Stage(g.stage.Load())
}

func (g *Game) GraphicsParameters() graphics.Parameters {
	g.paramsMu.RLock()
	defer g.paramsMu.RUnlock()
	return g.params
}

// Add registers item under every role it implements. A name already used by
// another component is refused before anything is registered.
func (g *Game) Add(item any) error {
	if g.closed.Load() {
		return core.ErrHostClosed
	}
	if item == nil || !reflect.TypeOf(item).Comparable() {
		return fmt.Errorf("%w: %T", core.ErrInvalidComponent, item)
	}

	g.itemsMu.Lock()
	if _, ok := g.items[item]; ok {
		g.itemsMu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrComponentExists, describe(item))
	}

	reg := &registration{}
	if n, ok := item.(component.Named); ok && n.Name() != "" {
		g.namesMu.Lock()
		if _, taken := g.names[n.Name()]; taken {
			g.namesMu.Unlock()
			g.itemsMu.Unlock()
			return fmt.Errorf("%w: '%s'", core.ErrDuplicateComponentName, n.Name())
		}
		g.names[n.Name()] = n
		g.namesMu.Unlock()
		reg.name = n.Name()
	}
	g.items[item] = reg

	var initNow component.Initializable
	if i, ok := item.(component.Initializable); ok {
		g.pendingMu.Lock()
		if g.ready {
			initNow = i
		} else {
			g.pending.Enqueue(i)
		}
		g.pendingMu.Unlock()
	}

	var loadNow component.Contentable
	if c, ok := item.(component.Contentable); ok {
		g.contentMu.Lock()
		g.contentables = append(g.contentables, c)
		if g.contentLoaded {
			loadNow = c
		}
		g.contentMu.Unlock()
	}

	if u, ok := item.(component.Updateable); ok {
		g.updateables.Insert(u)
		if ev := u.UpdateOrderChanged(); ev != nil {
			reg.updateEvent = ev
			reg.updateSub = ev.Subscribe(func() { g.updateables.Resort(u) })
		}
	}

	if d, ok := item.(component.Drawable); ok {
		g.drawables.Insert(d)
		if ev := d.DrawOrderChanged(); ev != nil {
			reg.drawEvent = ev
			reg.drawSub = ev.Subscribe(func() { g.drawables.Resort(d) })
		}
	}

	if h, ok := item.(core.KeyHandler); ok {
		g.input.RegisterKeyHandler(h)
	}
	if h, ok := item.(core.MouseHandler); ok {
		g.input.RegisterMouseHandler(h)
	}

	if c, ok := item.(io.Closer); ok {
		g.disposeMu.Lock()
		g.disposables = append(g.disposables, c)
		g.disposeMu.Unlock()
	}
	g.itemsMu.Unlock()

	core.LogDebug("component %s added", describe(item))

	if initNow != nil {
		if err := initNow.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", describe(item), err)
		}
	}
	if loadNow != nil {
		if err := loadNow.LoadContent(g.content); err != nil {
			return fmt.Errorf("failed to load content of %s: %w", describe(item), err)
		}
		g.markLoaded(loadNow)
	}
	return nil
}

// Remove undoes Add. Loaded content is unloaded and closers are closed.
func (g *Game) Remove(item any) error {
	if item == nil || !reflect.TypeOf(item).Comparable() {
		return fmt.Errorf("%w: %T", core.ErrComponentNotFound, item)
	}

	g.itemsMu.Lock()
	reg, ok := g.items[item]
	if !ok {
		g.itemsMu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrComponentNotFound, describe(item))
	}
	delete(g.items, item)

	if reg.name != "" {
		g.namesMu.Lock()
		delete(g.names, reg.name)
		g.namesMu.Unlock()
	}

	if _, ok := item.(component.Initializable); ok {
		g.pendingMu.Lock()
		g.pending.RemoveFunc(func(i component.Initializable) bool { return any(i) == item })
		g.pendingMu.Unlock()
	}

	var unload component.Contentable
	if c, ok := item.(component.Contentable); ok {
		g.contentMu.Lock()
		if i := slices.Index(g.contentables, c); i >= 0 {
			g.contentables = slices.Delete(g.contentables, i, i+1)
		}
		if _, ok := g.loaded[c]; ok {
			delete(g.loaded, c)
			unload = c
		}
		g.contentMu.Unlock()
	}

	if u, ok := item.(component.Updateable); ok {
		g.updateables.Remove(u)
		if reg.updateEvent != nil {
			reg.updateEvent.Unsubscribe(reg.updateSub)
		}
	}
	if d, ok := item.(component.Drawable); ok {
		g.drawables.Remove(d)
		if reg.drawEvent != nil {
			reg.drawEvent.Unsubscribe(reg.drawSub)
		}
	}

	if h, ok := item.(core.KeyHandler); ok {
		g.input.UnregisterKeyHandler(h)
	}
	if h, ok := item.(core.MouseHandler); ok {
		g.input.UnregisterMouseHandler(h)
	}

	var closer io.Closer
	if c, ok := item.(io.Closer); ok {
		g.disposeMu.Lock()
		if i := slices.Index(g.disposables, c); i >= 0 {
			g.disposables = slices.Delete(g.disposables, i, i+1)
			closer = c
		}
		g.disposeMu.Unlock()
	}
	g.itemsMu.Unlock()

	core.LogDebug("component %s removed", describe(item))

	var errs []error
	if unload != nil {
		if err := unload.UnloadContent(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unload content of %s: %w", describe(item), err))
		}
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", describe(item), err))
		}
	}
	return errors.Join(errs...)
}

// GetComponent looks up a named component.
func (g *Game) GetComponent(name string) (component.Named, bool) {
	g.namesMu.RLock()
	defer g.namesMu.RUnlock()
	n, ok := g.names[name]
	return n, ok
}

// IsRunning reports whether the loop updates and draws. It is true until
// SetRunning(false) pauses the game.
func (g *Game) IsRunning() bool {
	return !g.paused.Load()
}

// SetRunning pauses or resumes the game. A paused game keeps pumping window
// messages. Resuming does not deliver the paused span as elapsed time.
func (g *Game) SetRunning(running bool) {
	g.paused.Store(!running)
	if running {
		g.stage.CompareAndSwap(uint32(GameStagePaused), uint32(GameStageRunning))
	} else {
		g.stage.CompareAndSwap(uint32(GameStageRunning), uint32(GameStagePaused))
	}
}

// Shutdown asks the loop to exit. The current iteration completes first. It
// is safe to call from any goroutine.
func (g *Game) Shutdown() {
	g.shutdown.Store(true)
}

// Run initializes the game on first use, loads content and runs the loop
// until Shutdown. Content is unloaded before Run returns, and only for the
// components whose LoadContent succeeded. The first component error stops
// the loop and is returned. A component whose Initialize fails stays at the
// head of the pending queue, so the next Run retries it.
func (g *Game) Run() error {
	if g.closed.Load() {
		return core.ErrHostClosed
	}
	if !g.running.CompareAndSwap(false, true) {
		return core.ErrAlreadyRunning
	}
	defer g.running.Store(false)

	if err := g.initialize(); err != nil {
		return err
	}

	loopErr := g.loadContent()
	if loopErr == nil {
		loopErr = g.loop()
	}

	g.stage.Store(uint32(GameStageShuttingDown))
	unloadErr := g.unloadContent()
	g.stage.Store(uint32(GameStageContentUnloaded))
	g.shutdown.Store(false)

	if loopErr != nil {
		if unloadErr != nil {
			core.LogError("content unload failed: %s", unloadErr)
		}
		return loopErr
	}
	return unloadErr
}

func (g *Game) initialize() error {
	if g.initialized {
		return nil
	}
	g.stage.Store(uint32(GameStageInitializing))

	if err := g.initializeDevice(); err != nil {
		g.stage.Store(uint32(GameStageConstructed))
		return err
	}

	// Items added while draining are queued behind the current ones. An item
	// leaves the queue only once its Initialize succeeded.
	for {
		g.pendingMu.Lock()
		next, err := g.pending.Peek()
		if err != nil {
			g.ready = true
			g.pendingMu.Unlock()
			break
		}
		g.pendingMu.Unlock()

		if err := next.Initialize(); err != nil {
			g.stage.Store(uint32(GameStageConstructed))
			return fmt.Errorf("failed to initialize %s: %w", describe(next), err)
		}

		g.pendingMu.Lock()
		g.pending.RemoveFunc(func(i component.Initializable) bool { return i == next })
		g.pendingMu.Unlock()
	}

	g.initialized = true
	g.stage.Store(uint32(GameStageInitialized))
	params := g.GraphicsParameters()
	core.LogInfo("%s initialized (%dx%d)", g.cfg.Name, params.Width, params.Height)
	return nil
}

func (g *Game) initializeDevice() error {
	if g.deviceReady {
		return nil
	}

	g.paramsMu.Lock()
	params := g.params
	g.paramsMu.Unlock()

	if err := g.window.Initialize(&params); err != nil {
		return fmt.Errorf("failed to initialize window: %w", err)
	}
	if err := g.device.Initialize(&params); err != nil {
		return fmt.Errorf("failed to initialize graphics device: %w", err)
	}

	g.paramsMu.Lock()
	g.params = params
	g.paramsMu.Unlock()
	g.deviceReady = true
	return nil
}

func (g *Game) loadContent() error {
	g.stage.Store(uint32(GameStageContentLoading))

	g.contentMu.Lock()
	g.contentLoaded = true
	items := slices.Clone(g.contentables)
	g.contentMu.Unlock()

	for _, c := range items {
		if err := c.LoadContent(g.content); err != nil {
			return fmt.Errorf("failed to load content of %s: %w", describe(c), err)
		}
		g.markLoaded(c)
	}
	return nil
}

func (g *Game) markLoaded(c component.Contentable) {
	g.contentMu.Lock()
	defer g.contentMu.Unlock()
	// a concurrent Remove may have dropped it already
	if g.contentLoaded && slices.Contains(g.contentables, c) {
		g.loaded[c] = struct{}{}
	}
}

func (g *Game) unloadContent() error {
	g.contentMu.Lock()
	if !g.contentLoaded {
		g.contentMu.Unlock()
		return nil
	}
	g.contentLoaded = false
	items := make([]component.Contentable, 0, len(g.loaded))
	for _, c := range g.contentables {
		if _, ok := g.loaded[c]; ok {
			items = append(items, c)
		}
	}
	clear(g.loaded)
	g.contentMu.Unlock()

	var errs []error
	for _, c := range items {
		if err := c.UnloadContent(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unload content of %s: %w", describe(c), err))
		}
	}
	return errors.Join(errs...)
}

func (g *Game) loop() error {
	if g.paused.Load() {
		g.stage.Store(uint32(GameStagePaused))
	} else {
		g.stage.Store(uint32(GameStageRunning))
	}

	target := g.cfg.TargetElapsedTime()
	inactiveSleep := g.cfg.InactiveSleepTime()

	g.clock.Start()
	active := true
	for !g.shutdown.Load() {
		frameStart := time.Now()

		g.window.PumpMessages()

		if g.paused.Load() {
			if active {
				g.clock.Stop()
				active = false
			}
			time.Sleep(inactiveSleep)
			continue
		}
		if !active {
			g.clock.Restart()
			active = true
		}

		gt := g.clock.Tick()

		if err := g.update(gt); err != nil {
			return err
		}
		if err := g.draw(gt); err != nil {
			return err
		}

		// Input state is copied last so that handlers and updates saw this
		// frame's transitions.
		g.input.Update()

		if g.metrics.Update(gt.Elapsed) {
			fps, ms := g.metrics.Frame()
			core.LogDebug("%.1f fps (%.3f ms)", fps, ms)
		}

		g.clock.EndFrame()
		if g.cfg.IsFixedTimeStep {
			waitUntil(frameStart.Add(target))
		}
	}
	return nil
}

func (g *Game) update(gt core.GameTime) error {
	g.updateBuf = g.updateables.Snapshot(g.updateBuf)
	defer clear(g.updateBuf)

	for _, u := range g.updateBuf {
		if !u.Enabled() {
			continue
		}
		if err := u.Update(gt); err != nil {
			return fmt.Errorf("failed to update %s: %w", describe(u), err)
		}
	}
	return nil
}

func (g *Game) draw(gt core.GameTime) error {
	if !g.device.BeginFrame() {
		return nil
	}

	g.drawBuf = g.drawables.Snapshot(g.drawBuf)
	defer clear(g.drawBuf)

	for _, d := range g.drawBuf {
		if !d.Visible() || !d.BeginDraw() {
			continue
		}
		err := d.Draw(gt)
		d.EndDraw()
		if err != nil {
			if endErr := g.device.EndFrame(); endErr != nil {
				core.LogError("failed to end frame: %s", endErr)
			}
			return fmt.Errorf("failed to draw %s: %w", describe(d), err)
		}
	}
	return g.device.EndFrame()
}

// waitUntil sleeps in 1ms steps while more than SpinThreshold remains, then
// spins until the deadline.
func waitUntil(deadline time.Time) {
	for time.Until(deadline) > SpinThreshold {
		time.Sleep(time.Millisecond)
	}
	for time.Now().Before(deadline) {
	}
}

func (g *Game) onQuit(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("event %d received, shutting down", code)
	g.Shutdown()
	return false
}

func (g *Game) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	se, ok := data.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", code)
		return false
	}

	g.paramsMu.Lock()
	changed := g.params.Width != se.WindowWidth || g.params.Height != se.WindowHeight
	g.params.Width = se.WindowWidth
	g.params.Height = se.WindowHeight
	g.paramsMu.Unlock()
	if !changed {
		return false
	}

	if se.WindowWidth == 0 || se.WindowHeight == 0 {
		core.LogInfo("Window minimized, frames are skipped until it is restored.")
	} else {
		core.LogDebug("Window resize: %d, %d", se.WindowWidth, se.WindowHeight)
	}
	g.device.Resize(se.WindowWidth, se.WindowHeight)
	return false
}

// Close releases every component closer in reverse order, then the job
// system, content manager, device and window. A running game is refused.
func (g *Game) Close() error {
	if g.running.Load() {
		return core.ErrAlreadyRunning
	}
	if !g.closed.CompareAndSwap(false, true) {
		return nil
	}

	errs := []error{g.unloadContent()}

	g.disposeMu.Lock()
	closers := g.disposables
	g.disposables = nil
	g.disposeMu.Unlock()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", describe(closers[i]), err))
		}
	}

	errs = append(errs, g.release())
	g.bus.Reset()
	g.stage.Store(uint32(GameStageDisposed))
	core.LogInfo("%s disposed", g.cfg.Name)
	return errors.Join(errs...)
}

func (g *Game) release() error {
	var errs []error
	if g.jobs != nil {
		errs = append(errs, g.jobs.Close())
	}
	if g.content != nil {
		errs = append(errs, g.content.Close())
	}
	errs = append(errs, g.device.Close(), g.window.Close())
	return errors.Join(errs...)
}

func describe(item any) string {
	if n, ok := item.(component.Named); ok && n.Name() != "" {
		return fmt.Sprintf("'%s'", n.Name())
	}
	return fmt.Sprintf("%T", item)
}
