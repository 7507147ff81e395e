package editorconf

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/loader"
	"github.com/dshills/richconf/internal/editorconf/merge"
	"github.com/dshills/richconf/internal/editorconf/notify"
	"github.com/dshills/richconf/internal/editorconf/watcher"
)

// Default file names and environment prefix.
const (
	// DefaultEnvPrefix prefixes environment variable overrides.
	DefaultEnvPrefix = "RICHCONF_"

	// OverlayFileName is the overlay file looked up in the host and
	// workspace config directories.
	OverlayFileName = "editor.toml"

	// SessionFileName holds persisted session overrides, in the host
	// config directory.
	SessionFileName = "session.json"
)

// Config composes the editor's configuration from the built-in baseline
// and the overlay stack: host overlay file, workspace overlay file,
// plugin contributions, environment variables, and session overrides.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher
	contribs *Contributions

	hostDir      string
	workspaceDir string
	envPrefix    string
	baseline     *layer.Overlay
	watchFiles   bool
	pollInterval time.Duration

	sessionLoader *loader.JSONLoader
	layerByPath   map[string]string // abs overlay file path -> layer name
	loaded        bool
}

// Option configures a Config.
type Option func(*Config)

// WithHostConfigDir sets the host application's config directory. The
// host overlay is <dir>/editor.toml; session overrides persist to
// <dir>/session.json.
func WithHostConfigDir(dir string) Option {
	return func(c *Config) { c.hostDir = dir }
}

// WithWorkspaceConfigDir sets the workspace config directory. The
// workspace overlay is <dir>/editor.toml.
func WithWorkspaceConfigDir(dir string) Option {
	return func(c *Config) { c.workspaceDir = dir }
}

// WithEnvPrefix sets the environment variable prefix.
// The prefix should include the trailing underscore.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) { c.envPrefix = prefix }
}

// WithWatcher enables or disables overlay file watching.
func WithWatcher(enabled bool) Option {
	return func(c *Config) { c.watchFiles = enabled }
}

// WithPollInterval sets the file watcher's polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithBaseline replaces the built-in baseline overlay.
func WithBaseline(overlay *layer.Overlay) Option {
	return func(c *Config) {
		if overlay != nil {
			c.baseline = overlay
		}
	}
}

// New creates a Config. Call Load to populate the overlay stack.
func New(opts ...Option) *Config {
	c := &Config{
		layers:       layer.NewManager(),
		notifier:     notify.New(),
		envPrefix:    DefaultEnvPrefix,
		baseline:     Baseline(),
		pollInterval: 500 * time.Millisecond,
		layerByPath:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.contribs = newContributions(c)
	return c
}

// Load builds the overlay stack: baseline, host overlay, workspace
// overlay, session overrides, then environment variables. Missing
// overlay files are fine; a file that exists but fails to parse is an
// error. When watching is enabled the overlay files are polled and
// reloaded on change.
func (c *Config) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return fmt.Errorf("configuration already loaded")
	}

	baseLayer := layer.NewLayerWithOverlay(
		layer.StandardLayerName(layer.SourceBuiltin), layer.SourceBuiltin,
		layer.PriorityBuiltin, c.baseline.Clone())
	baseLayer.ReadOnly = true
	c.layers.AddLayer(baseLayer)

	if c.hostDir != "" {
		path := filepath.Join(c.hostDir, OverlayFileName)
		if err := c.addFileLayer(layer.SourceHost, layer.PriorityHost, path); err != nil {
			return err
		}
	}

	if c.workspaceDir != "" {
		path := filepath.Join(c.workspaceDir, OverlayFileName)
		if err := c.addFileLayer(layer.SourceWorkspace, layer.PriorityWorkspace, path); err != nil {
			return err
		}
	}

	if err := c.addSessionLayer(); err != nil {
		return err
	}

	if err := c.addEnvLayer(); err != nil {
		return err
	}

	if c.watchFiles && len(c.layerByPath) > 0 {
		if err := c.startWatcher(); err != nil {
			return err
		}
	}

	c.loaded = true
	return nil
}

// addFileLayer loads a TOML overlay file into a named layer and records
// the path for watching. Caller must hold the lock.
func (c *Config) addFileLayer(source layer.Source, priority int, path string) error {
	overlay, err := loader.NewTOMLLoader(path).Load()
	if err != nil {
		return err
	}

	name := layer.StandardLayerName(source)
	l := layer.NewLayerWithOverlay(name, source, priority, overlay)
	l.Path = path
	c.layers.AddLayer(l)
	c.recordPath(path, name)
	return nil
}

// addSessionLayer creates the writable session layer. When a host
// config directory is set, persisted overrides load from session.json
// and later SetSetting calls patch the same file.
func (c *Config) addSessionLayer() error {
	name := layer.StandardLayerName(layer.SourceSession)
	l := layer.NewLayer(name, layer.SourceSession, layer.PrioritySession)

	if c.hostDir != "" {
		path := filepath.Join(c.hostDir, SessionFileName)
		jl := loader.NewJSONLoader(path)
		overlay, err := jl.Load()
		if err != nil {
			return err
		}
		if overlay != nil {
			l.Overlay = overlay
		}
		l.Path = path
		c.sessionLoader = jl
		c.recordPath(path, name)
	}

	c.layers.AddLayer(l)
	return nil
}

func (c *Config) addEnvLayer() error {
	overlay, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return err
	}
	if overlay.IsEmpty() {
		return nil
	}

	c.layers.AddLayer(layer.NewLayerWithOverlay(
		layer.StandardLayerName(layer.SourceEnv), layer.SourceEnv,
		layer.PriorityEnv, overlay))
	return nil
}

func (c *Config) recordPath(path, layerName string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	c.layerByPath[path] = layerName
}

func (c *Config) startWatcher() error {
	c.watcher = watcher.New(watcher.WithInterval(c.pollInterval))
	c.watcher.OnChange(c.handleFileChange)

	for path := range c.layerByPath {
		if err := c.watcher.Watch(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}

	c.watcher.Start()
	return nil
}

// handleFileChange reloads the layer behind a changed overlay file.
// A file that fails to parse leaves the layer's previous overlay in
// place; a removed file clears the layer.
func (c *Config) handleFileChange(event watcher.Event) {
	c.mu.RLock()
	name, ok := c.layerByPath[event.Path]
	c.mu.RUnlock()
	if !ok {
		return
	}

	if event.Op == watcher.OpRemove {
		if err := c.layers.UpdateLayer(name, &layer.Overlay{}); err == nil {
			c.notifier.NotifyReload(name)
		}
		return
	}

	overlay, err := c.reloadOverlay(name, event.Path)
	if err != nil || overlay == nil {
		return
	}
	if err := c.layers.UpdateLayer(name, overlay); err != nil {
		return
	}
	c.notifier.NotifyReload(name)
}

func (c *Config) reloadOverlay(name, path string) (*layer.Overlay, error) {
	if name == layer.StandardLayerName(layer.SourceSession) {
		return loader.NewJSONLoader(path).Load()
	}
	return loader.NewTOMLLoader(path).Load()
}

// Resolve folds the overlay stack into the final configuration.
func (c *Config) Resolve() *layer.Resolved {
	return c.layers.Resolve()
}

// Contributions returns the plugin contribution registry.
func (c *Config) Contributions() *Contributions {
	return c.contribs
}

// Layers returns the overlay stack in fold order.
func (c *Config) Layers() []*layer.Layer {
	return c.layers.Layers()
}

// Layer returns the named overlay layer.
func (c *Config) Layer(name string) (*layer.Layer, error) {
	l := c.layers.GetLayer(name)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, name)
	}
	return l, nil
}

// initSection is one menu section of the widget init document.
type initSection struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Items string `json:"items"`
}

// initGroup is one toolbar group of the widget init document.
type initGroup struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// initDocument is the JSON document handed to the editor widget.
type initDocument struct {
	Menu     []initSection  `json:"menu"`
	Toolbar  []initGroup    `json:"toolbar"`
	Plugins  []string       `json:"plugins"`
	Settings map[string]any `json:"settings"`
}

// InitJSON serializes the resolved configuration as the editor widget's
// init document. Output is deterministic: menu and toolbar keep merge
// order, settings keys serialize sorted.
func (c *Config) InitJSON() ([]byte, error) {
	r := c.Resolve()

	doc := initDocument{
		Menu:     make([]initSection, 0, len(r.Menu)),
		Toolbar:  make([]initGroup, 0, len(r.Toolbar)),
		Plugins:  r.Plugins,
		Settings: r.Settings,
	}
	if doc.Settings == nil {
		doc.Settings = map[string]any{}
	}
	for _, s := range r.Menu {
		doc.Menu = append(doc.Menu, initSection{Key: s.Key, Title: s.Title, Items: s.Items})
	}
	for _, g := range r.Toolbar {
		items := g.Items
		if items == nil {
			items = []string{}
		}
		doc.Toolbar = append(doc.Toolbar, initGroup{Name: g.Name, Items: items})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding init document: %w", err)
	}
	return data, nil
}

// GetSetting returns the effective value at a dot-separated settings
// path.
func (c *Config) GetSetting(path string) (any, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	v, ok := layer.GetPath(c.Resolve().Settings, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return v, nil
}

// GetString returns a string setting.
func (c *Config) GetString(path string) (string, error) {
	v, err := c.GetSetting(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer setting. Integral floats coerce, matching
// how JSON overlays decode numbers.
func (c *Config) GetInt(path string) (int64, error) {
	v, err := c.GetSetting(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean setting.
func (c *Config) GetBool(path string) (bool, error) {
	v, err := c.GetSetting(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a float setting. Integer values coerce.
func (c *Config) GetFloat(path string) (float64, error) {
	v, err := c.GetSetting(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
}

// GetStringSlice returns a string list setting. A []any of strings,
// as JSON overlays decode arrays, coerces.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, err := c.GetSetting(path)
	if err != nil {
		return nil, err
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
}

// SetSetting writes a session override and notifies observers with the
// old and new effective values. When a host config directory is set the
// override also persists to session.json.
func (c *Config) SetSetting(path string, value any) error {
	if path == "" {
		return ErrInvalidPath
	}

	effective := c.Resolve().Settings
	if err := validateSettingPath(effective, path); err != nil {
		return err
	}
	oldValue, _ := layer.GetPath(effective, path)

	name := layer.StandardLayerName(layer.SourceSession)
	if c.layers.GetLayer(name) == nil {
		c.layers.AddLayer(layer.NewLayer(name, layer.SourceSession, layer.PrioritySession))
	}
	if err := c.layers.SetSetting(name, path, value); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	c.mu.RLock()
	jl := c.sessionLoader
	c.mu.RUnlock()
	if jl != nil {
		if err := jl.Patch("settings."+path, value); err != nil {
			return err
		}
	}

	newValue, _ := layer.GetPath(c.Resolve().Settings, path)
	c.notifier.NotifySet(path, oldValue, newValue, name)
	return nil
}

// validateSettingPath rejects paths that descend through an effective
// scalar value: "content.language" holding a string makes
// "content.language.region" invalid.
func validateSettingPath(settings map[string]any, path string) error {
	segments := strings.Split(path, ".")
	for i := 1; i < len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		v, ok := layer.GetPath(settings, prefix)
		if !ok {
			return nil
		}
		if _, isMap := v.(map[string]any); !isMap {
			return fmt.Errorf("%w: %s traverses non-map value at %s", ErrInvalidPath, path, prefix)
		}
	}
	return nil
}

// MergeMenuItems composes group strings without building a stack.
// It is the same merge Resolve applies to menu section items.
func (c *Config) MergeMenuItems(standard string, customs ...string) string {
	return merge.MergeMenuItems(standard, customs...)
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below a
// settings path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Close stops the file watcher and notification delivery.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	c.notifier.Close()
}
