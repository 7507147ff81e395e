// Package layer manages the overlay stack for editor configuration.
//
// Each layer carries one overlay document from a single source (built-in
// baseline, host application, workspace, plugin contribution, environment,
// session). Layers fold together in priority order; higher priority
// overlays fold in later and therefore append after lower ones.
package layer

import (
	"time"

	"github.com/dshills/richconf/internal/editorconf/merge"
)

// Overlay is one override document: the menu sections, toolbar groups,
// plugin tokens, and scalar settings contributed by a single source.
type Overlay struct {
	// Menu sections to merge into the menu tree.
	Menu merge.Menu

	// Toolbar groups to merge into the toolbar.
	Toolbar merge.Toolbar

	// Plugins holds raw plugin tokens. A leading "-" marks an exclusion
	// ("-emoji" removes the emoji plugin from the final list).
	Plugins []string

	// Settings holds scalar widget settings as a nested map.
	Settings map[string]any
}

// Clone returns a deep copy of the overlay.
func (o *Overlay) Clone() *Overlay {
	if o == nil {
		return nil
	}
	out := &Overlay{
		Menu:     o.Menu.Clone(),
		Toolbar:  o.Toolbar.Clone(),
		Settings: CloneSettings(o.Settings),
	}
	if o.Plugins != nil {
		out.Plugins = make([]string, len(o.Plugins))
		copy(out.Plugins, o.Plugins)
	}
	return out
}

// IsEmpty reports whether the overlay contributes nothing.
func (o *Overlay) IsEmpty() bool {
	if o == nil {
		return true
	}
	return len(o.Menu) == 0 && len(o.Toolbar) == 0 && len(o.Plugins) == 0 && len(o.Settings) == 0
}

// Layer is a single named entry in the overlay stack.
type Layer struct {
	// Name identifies the layer (e.g. "baseline", "host", "plugin:wordcount").
	Name string

	// Source indicates where the overlay came from.
	Source Source

	// Priority determines fold order; higher folds in later.
	Priority int

	// Path is the file path, if the overlay was loaded from a file.
	Path string

	// Overlay holds the layer's override document.
	Overlay *Overlay

	// ModTime is when the source was last modified.
	ModTime time.Time

	// ReadOnly prevents replacing this layer's overlay.
	ReadOnly bool
}

// NewLayer creates a layer with an empty overlay.
func NewLayer(name string, source Source, priority int) *Layer {
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: priority,
		Overlay:  &Overlay{},
		ModTime:  time.Now(),
	}
}

// NewLayerWithOverlay creates a layer holding the given overlay.
func NewLayerWithOverlay(name string, source Source, priority int, overlay *Overlay) *Layer {
	if overlay == nil {
		overlay = &Overlay{}
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: priority,
		Overlay:  overlay,
		ModTime:  time.Now(),
	}
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Name:     l.Name,
		Source:   l.Source,
		Priority: l.Priority,
		Path:     l.Path,
		Overlay:  l.Overlay.Clone(),
		ModTime:  l.ModTime,
		ReadOnly: l.ReadOnly,
	}
}

// Source indicates where an overlay came from.
type Source uint8

const (
	// SourceBuiltin is the built-in baseline configuration.
	SourceBuiltin Source = iota
	// SourceHost is the host application's overlay file.
	SourceHost
	// SourceWorkspace is the workspace/project overlay file.
	SourceWorkspace
	// SourcePlugin is a plugin contribution script.
	SourcePlugin
	// SourceEnv is environment variable overrides.
	SourceEnv
	// SourceSession is in-memory session overrides.
	SourceSession
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceHost:
		return "host"
	case SourceWorkspace:
		return "workspace"
	case SourcePlugin:
		return "plugin"
	case SourceEnv:
		return "environment"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}
