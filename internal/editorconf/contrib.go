package editorconf

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/luaext"
)

// Contributions registers plugin configuration contributions. Each
// registered plugin holds one overlay layer named "plugin:<name>";
// registering the same name again replaces the earlier contribution.
// Plugin layers share a priority level, so they fold in registration
// order.
type Contributions struct {
	cfg *Config

	mu      sync.Mutex
	names   map[string]bool
	timeout time.Duration
}

func newContributions(cfg *Config) *Contributions {
	return &Contributions{cfg: cfg, names: make(map[string]bool)}
}

// SetScriptTimeout bounds contribution script execution. Zero keeps the
// default.
func (r *Contributions) SetScriptTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeout = d
}

// RegisterScript runs a Lua contribution script in the sandbox and
// registers the overlay it returns.
func (r *Contributions) RegisterScript(ctx context.Context, name, source string) error {
	r.mu.Lock()
	timeout := r.timeout
	r.mu.Unlock()

	var opts []luaext.Option
	if timeout > 0 {
		opts = append(opts, luaext.WithTimeout(timeout))
	}

	overlay, err := luaext.LoadOverlay(ctx, name, source, opts...)
	if err != nil {
		return err
	}

	r.RegisterOverlay(name, overlay)
	return nil
}

// RegisterOverlay registers a plugin contribution directly.
func (r *Contributions) RegisterOverlay(name string, overlay *layer.Overlay) {
	layerName := layerNameFor(name)

	r.mu.Lock()
	registered := r.names[name]
	r.names[name] = true
	r.mu.Unlock()

	if registered {
		// Replacement; the layer keeps its position in the stack.
		_ = r.cfg.layers.UpdateLayer(layerName, overlay)
	} else {
		r.cfg.layers.AddLayer(layer.NewLayerWithOverlay(
			layerName, layer.SourcePlugin, layer.PriorityPlugin, overlay))
	}

	r.cfg.notifier.NotifyReload(layerName)
}

// Unregister removes a plugin's contribution.
func (r *Contributions) Unregister(name string) error {
	r.mu.Lock()
	registered := r.names[name]
	delete(r.names, name)
	r.mu.Unlock()

	if !registered {
		return ErrPluginNotRegistered
	}

	layerName := layerNameFor(name)
	r.cfg.layers.RemoveLayer(layerName)
	r.cfg.notifier.NotifyReload(layerName)
	return nil
}

// IsRegistered reports whether a plugin contribution is registered.
func (r *Contributions) IsRegistered(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[name]
}

// List returns the registered plugin names, sorted.
func (r *Contributions) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func layerNameFor(plugin string) string {
	return layer.StandardLayerName(layer.SourcePlugin) + ":" + plugin
}
