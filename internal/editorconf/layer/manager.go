package layer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/richconf/internal/editorconf/merge"
)

// Resolved is the final configuration produced by folding the overlay
// stack: the document handed to the editor widget.
type Resolved struct {
	// Menu is the merged menu tree in output order.
	Menu merge.Menu

	// Toolbar is the merged toolbar in output order.
	Toolbar merge.Toolbar

	// Plugins is the final activation list, deduplicated, with
	// exclusions applied.
	Plugins []string

	// Settings is the deep-merged scalar settings map.
	Settings map[string]any
}

// Clone returns a deep copy of the resolved configuration.
func (r *Resolved) Clone() *Resolved {
	if r == nil {
		return nil
	}
	out := &Resolved{
		Menu:     r.Menu.Clone(),
		Toolbar:  r.Toolbar.Clone(),
		Settings: CloneSettings(r.Settings),
	}
	if r.Plugins != nil {
		out.Plugins = make([]string, len(r.Plugins))
		copy(out.Plugins, r.Plugins)
	}
	return out
}

// Manager holds the overlay stack and resolves it on demand.
// The resolved result is cached until a layer changes.
type Manager struct {
	mu       sync.RWMutex
	layers   []*Layer // sorted by priority ascending, insertion order on ties
	resolved *Resolved
	dirty    bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// AddLayer adds a layer to the stack. Layers sort by priority; layers
// with equal priority keep insertion order.
func (m *Manager) AddLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = append(m.layers, l)
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// RemoveLayer removes a layer by name.
// Returns true if the layer was found and removed.
func (m *Manager) RemoveLayer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// GetLayer returns a layer by name, or nil.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLayer(name)
}

// Layers returns a copy of the stack in fold order.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// LayerCount returns the number of layers.
func (m *Manager) LayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layers)
}

// UpdateLayer replaces a layer's overlay.
func (m *Manager) UpdateLayer(name string, overlay *Overlay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.findLayer(name)
	if l == nil {
		return fmt.Errorf("layer not found: %s", name)
	}
	if l.ReadOnly {
		return fmt.Errorf("layer is read-only: %s", name)
	}

	if overlay == nil {
		overlay = &Overlay{}
	}
	l.Overlay = overlay
	m.dirty = true
	return nil
}

// SetSetting writes a settings value into a specific layer.
func (m *Manager) SetSetting(layerName, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.findLayer(layerName)
	if l == nil {
		return fmt.Errorf("layer not found: %s", layerName)
	}
	if l.ReadOnly {
		return fmt.Errorf("layer is read-only: %s", layerName)
	}

	if l.Overlay == nil {
		l.Overlay = &Overlay{}
	}
	if l.Overlay.Settings == nil {
		l.Overlay.Settings = make(map[string]any)
	}
	if !SetPath(l.Overlay.Settings, path, value) {
		return fmt.Errorf("invalid settings path: %s", path)
	}
	m.dirty = true
	return nil
}

// Invalidate marks the resolved cache as stale.
// Call this after modifying a layer's overlay directly.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

// Clear removes all layers.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = nil
	m.resolved = nil
	m.dirty = true
}

// Resolve folds the overlay stack into the final configuration.
//
// Layers fold in ascending priority: menus via merge.MergeMenu, toolbars
// via merge.MergeToolbar, settings via DeepMerge. Plugin tokens
// accumulate across all layers; the include list dedups in fold order
// and the collected exclusions then filter the whole list, so an
// exclusion in any layer removes the plugin no matter which layer
// contributed it.
//
// The returned value is a fresh clone; callers cannot alias manager
// state through it.
func (m *Manager) Resolve() *Resolved {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty && m.resolved != nil {
		return m.resolved.Clone()
	}

	result := &Resolved{Settings: make(map[string]any)}
	var plugins []string
	var exclusions []string

	for _, l := range m.layers {
		o := l.Overlay
		if o == nil {
			continue
		}
		result.Menu = merge.MergeMenu(result.Menu, o.Menu)
		result.Toolbar = merge.MergeToolbar(result.Toolbar, o.Toolbar)
		plugins = merge.MergePlugins(plugins, merge.StripExclusions(o.Plugins), nil)
		exclusions = append(exclusions, merge.ParsePluginsToExclude(o.Plugins)...)
		result.Settings = DeepMerge(result.Settings, o.Settings)
	}

	result.Plugins = merge.MergePlugins(plugins, nil, exclusions)

	m.resolved = result
	m.dirty = false

	return result.Clone()
}

// findLayer finds a layer by name. Caller must hold the lock.
func (m *Manager) findLayer(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
