// Package content is the asset cache components load from during
// LoadContent. Assets are addressed by their slash separated path relative
// to the content root.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/kiln/engine/core"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNoLoader      = errors.New("no loader registered")
	ErrAssetType     = errors.New("asset has a different type")
	ErrClosed        = errors.New("content manager closed")
)

type Asset struct {
	Name     string
	Path     string
	Size     int64
	Hash     uint64
	LoadedAt time.Time
	Data     any
}

type AssetInfo struct {
	Path    string
	ModTime time.Time
}

type Option func(*Manager)

// WithWatch reloads changed files by watching the content root.
func WithWatch() Option {
	return func(m *Manager) {
		m.watch = true
	}
}

// WithLoader registers a loader for a file extension, replacing the default.
func WithLoader(ext string, l Loader) Option {
	return func(m *Manager) {
		m.loaders[normalizeExt(ext)] = l
	}
}

type Manager struct {
	root  string
	watch bool

	mu      sync.RWMutex
	index   map[string]AssetInfo
	cache   map[string]*Asset
	loaders map[string]Loader
	closed  bool

	listenersMu sync.RWMutex
	listeners   []func(name string)

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewManager indexes the files under root. A missing root is not an error:
// the manager starts empty and every load fails with ErrAssetNotFound.
func NewManager(root string, opts ...Option) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		root:    abs,
		index:   make(map[string]AssetInfo),
		cache:   make(map[string]*Asset),
		loaders: defaultLoaders(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogWarn("Content root '%s' does not exist", abs)
			return m, nil
		}
		return nil, err
	}

	if err := m.indexDir(abs); err != nil {
		return nil, err
	}

	if m.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		m.watcher = w
		if err := m.watchRecursive(abs); err != nil {
			w.Close()
			return nil, err
		}
		m.wg.Add(1)
		go m.start()
	}

	core.LogInfo("Content manager initialized with root '%s' (%d assets)", abs, len(m.index))
	return m, nil
}

func (m *Manager) Root() string {
	return m.root
}

// RegisterLoader registers a loader for a file extension such as ".png".
func (m *Manager) RegisterLoader(ext string, l Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[normalizeExt(ext)] = l
}

// OnReload registers fn to be called with the asset name whenever a cached
// asset is invalidated because its file changed or disappeared. Callbacks run
// on the watcher goroutine.
func (m *Manager) OnReload(fn func(name string)) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Names lists the indexed asset names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.index))
	for name := range m.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) Info(name string) (AssetInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.index[cleanName(name)]
	return info, ok
}

func (m *Manager) IsLoaded(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[cleanName(name)]
	return ok
}

// Load returns the cached asset or loads it from disk.
func (m *Manager) Load(name string) (*Asset, error) {
	name = cleanName(name)

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, ErrClosed
	}
	if a, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return a, nil
	}
	loader, ok := m.loaders[normalizeExt(path.Ext(name))]
	m.mu.RUnlock()
	if name == ".." || strings.HasPrefix(name, "../") {
		return nil, fmt.Errorf("%w: %s is outside the content root", ErrAssetNotFound, name)
	}
	if !ok {
		return nil, fmt.Errorf("%w for '%s'", ErrNoLoader, name)
	}

	fullPath := filepath.Join(m.root, filepath.FromSlash(name))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return nil, err
	}

	value, err := loader.Load(fullPath, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset '%s': %w", name, err)
	}
	asset := &Asset{
		Name:     name,
		Path:     fullPath,
		Size:     int64(len(data)),
		Hash:     xxhash.Sum64(data),
		LoadedAt: time.Now(),
		Data:     value,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		closeData(asset)
		return nil, ErrClosed
	}
	if existing, ok := m.cache[name]; ok {
		// lost a race with another loader of the same asset
		closeData(asset)
		return existing, nil
	}
	m.cache[name] = asset
	core.LogDebug("Loaded asset '%s' (%d bytes)", name, asset.Size)
	return asset, nil
}

// LoadAs loads an asset and asserts its data type.
func LoadAs[T any](m *Manager, name string) (T, error) {
	var zero T
	a, err := m.Load(name)
	if err != nil {
		return zero, err
	}
	v, ok := a.Data.(T)
	if !ok {
		return zero, fmt.Errorf("%w: '%s' is %T", ErrAssetType, a.Name, a.Data)
	}
	return v, nil
}

// Preload loads the named assets concurrently. The first failure cancels the
// loads that have not started yet.
func (m *Manager) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, name := range names {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := m.Load(name)
			return err
		})
	}
	return g.Wait()
}

// Unload drops a cached asset, closing its data when it is an io.Closer.
func (m *Manager) Unload(name string) error {
	name = cleanName(name)
	m.mu.Lock()
	a, ok := m.cache[name]
	delete(m.cache, name)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return closeData(a)
}

// UnloadAll drops every cached asset.
func (m *Manager) UnloadAll() error {
	m.mu.Lock()
	cached := m.cache
	m.cache = make(map[string]*Asset)
	m.mu.Unlock()

	var errs []error
	for _, a := range cached {
		if err := closeData(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if m.watcher != nil {
		close(m.done)
		m.wg.Wait()
	}
	return m.UnloadAll()
}

func (m *Manager) start() {
	defer m.wg.Done()
	for {
		select {
		case e, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleEvent(e)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			core.LogError("content watcher: %s", err)

		case <-m.done:
			m.watcher.Close()
			return
		}
	}
}

func (m *Manager) handleEvent(e fsnotify.Event) {
	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
			if err := m.watchRecursive(e.Name); err != nil {
				core.LogError("content watcher: %s", err)
			}
			if err := m.indexDir(e.Name); err != nil {
				core.LogError("content watcher: %s", err)
			}
			return
		}
	}

	name, ok := m.nameOf(e.Name)
	if !ok {
		return
	}

	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		s, err := os.Stat(e.Name)
		if err != nil || s.IsDir() {
			return
		}
		m.mu.Lock()
		m.index[name] = AssetInfo{Path: e.Name, ModTime: s.ModTime()}
		m.mu.Unlock()
		m.invalidateIfChanged(name, e.Name)

	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		m.mu.Lock()
		delete(m.index, name)
		a, cached := m.cache[name]
		delete(m.cache, name)
		m.mu.Unlock()
		// can't stat a deleted path, so try to unwatch it in case it was a directory
		_ = m.watcher.Remove(e.Name)
		if cached {
			closeData(a)
			m.notify(name)
		}
	}
}

func (m *Manager) invalidateIfChanged(name, fullPath string) {
	m.mu.RLock()
	a, cached := m.cache[name]
	m.mu.RUnlock()
	if !cached {
		return
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		core.LogWarn("content watcher: cannot read '%s': %s", name, err)
		return
	}
	if xxhash.Sum64(data) == a.Hash {
		return
	}

	m.mu.Lock()
	if current, ok := m.cache[name]; ok && current == a {
		delete(m.cache, name)
	}
	m.mu.Unlock()
	closeData(a)
	core.LogInfo("Asset '%s' changed on disk, it will be reloaded on next use", name)
	m.notify(name)
}

func (m *Manager) notify(name string) {
	m.listenersMu.RLock()
	listeners := slices.Clone(m.listeners)
	m.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(name)
	}
}

func (m *Manager) indexDir(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name, ok := m.nameOf(p)
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.index[name] = AssetInfo{Path: p, ModTime: info.ModTime()}
		m.mu.Unlock()
		return nil
	})
}

// watchRecursive adds dir and all its sub-directories to the watch list.
func (m *Manager) watchRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return m.watcher.Add(p)
		}
		return nil
	})
}

func (m *Manager) nameOf(fullPath string) (string, bool) {
	rel, err := filepath.Rel(m.root, fullPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "/")
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func closeData(a *Asset) error {
	if c, ok := a.Data.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
