package layer

import (
	"reflect"
	"testing"

	"github.com/dshills/richconf/internal/editorconf/merge"
)

func baselineLayer() *Layer {
	return NewLayerWithOverlay("baseline", SourceBuiltin, PriorityBuiltin, &Overlay{
		Menu: merge.Menu{
			{Key: "edit", Title: "Edit", Items: "undo redo | cut copy paste"},
			{Key: "format", Title: "Format", Items: "bold italic"},
		},
		Toolbar: merge.Toolbar{
			{Name: "History", Items: []string{"undo", "redo"}},
			{Name: "Formatting", Items: []string{"bold", "italic", "underline"}},
		},
		Plugins:  []string{"lists", "link", "emoji"},
		Settings: map[string]any{"content": map[string]any{"language": "en"}},
	})
}

func TestManagerResolveFoldsByPriority(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())
	m.AddLayer(NewLayerWithOverlay("host", SourceHost, PriorityHost, &Overlay{
		Menu:    merge.Menu{{Key: "format", Items: "strikethrough"}},
		Toolbar: merge.Toolbar{{Name: "Formatting", Items: []string{"strikethrough"}}},
		Plugins: []string{"table", "link"},
		Settings: map[string]any{
			"content": map[string]any{"directionality": "ltr"},
		},
	}))

	resolved := m.Resolve()

	wantMenu := merge.Menu{
		{Key: "edit", Title: "Edit", Items: "undo redo | cut copy paste"},
		{Key: "format", Title: "Format", Items: "bold italic | strikethrough"},
	}
	if !reflect.DeepEqual(resolved.Menu, wantMenu) {
		t.Errorf("Menu = %+v, want %+v", resolved.Menu, wantMenu)
	}

	wantToolbar := merge.Toolbar{
		{Name: "History", Items: []string{"undo", "redo"}},
		{Name: "Formatting", Items: []string{"bold", "italic", "underline", "strikethrough"}},
	}
	if !reflect.DeepEqual(resolved.Toolbar, wantToolbar) {
		t.Errorf("Toolbar = %+v, want %+v", resolved.Toolbar, wantToolbar)
	}

	wantPlugins := []string{"lists", "link", "emoji", "table"}
	if !reflect.DeepEqual(resolved.Plugins, wantPlugins) {
		t.Errorf("Plugins = %v, want %v", resolved.Plugins, wantPlugins)
	}

	wantSettings := map[string]any{
		"content": map[string]any{"language": "en", "directionality": "ltr"},
	}
	if !reflect.DeepEqual(resolved.Settings, wantSettings) {
		t.Errorf("Settings = %v, want %v", resolved.Settings, wantSettings)
	}
}

func TestManagerResolveAppliesExclusionsGlobally(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())
	// The workspace excludes a baseline plugin and adds one of its own.
	m.AddLayer(NewLayerWithOverlay("workspace", SourceWorkspace, PriorityWorkspace, &Overlay{
		Plugins: []string{"wordcount", "-emoji"},
	}))

	resolved := m.Resolve()

	want := []string{"lists", "link", "wordcount"}
	if !reflect.DeepEqual(resolved.Plugins, want) {
		t.Errorf("Plugins = %v, want %v", resolved.Plugins, want)
	}
}

func TestManagerResolveLayerOrderIndependentOfInsertion(t *testing.T) {
	host := NewLayerWithOverlay("host", SourceHost, PriorityHost, &Overlay{
		Plugins: []string{"table"},
	})

	m := NewManager()
	m.AddLayer(host)
	m.AddLayer(baselineLayer()) // added after, but lower priority folds first

	want := []string{"lists", "link", "emoji", "table"}
	if got := m.Resolve().Plugins; !reflect.DeepEqual(got, want) {
		t.Errorf("Plugins = %v, want %v", got, want)
	}
}

func TestManagerResolveCaching(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())

	first := m.Resolve()
	second := m.Resolve()
	if !reflect.DeepEqual(first, second) {
		t.Fatal("cached resolve differs from first resolve")
	}

	// Mutating a returned resolve must not leak into the cache.
	first.Plugins[0] = "changed"
	if got := m.Resolve().Plugins[0]; got != "lists" {
		t.Errorf("cache was aliased by caller mutation: %q", got)
	}
}

func TestManagerRemoveLayerInvalidates(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())
	m.AddLayer(NewLayerWithOverlay("host", SourceHost, PriorityHost, &Overlay{
		Plugins: []string{"table"},
	}))

	if got := m.Resolve().Plugins; len(got) != 4 {
		t.Fatalf("expected 4 plugins before removal, got %v", got)
	}

	if !m.RemoveLayer("host") {
		t.Fatal("RemoveLayer returned false")
	}
	if m.RemoveLayer("host") {
		t.Error("second RemoveLayer should return false")
	}

	want := []string{"lists", "link", "emoji"}
	if got := m.Resolve().Plugins; !reflect.DeepEqual(got, want) {
		t.Errorf("Plugins after removal = %v, want %v", got, want)
	}
}

func TestManagerUpdateLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())

	if err := m.UpdateLayer("missing", &Overlay{}); err == nil {
		t.Error("UpdateLayer on missing layer should fail")
	}

	if err := m.UpdateLayer("baseline", &Overlay{Plugins: []string{"only"}}); err != nil {
		t.Fatalf("UpdateLayer: %v", err)
	}
	if got := m.Resolve().Plugins; !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("Plugins = %v, want [only]", got)
	}
}

func TestManagerUpdateReadOnlyLayer(t *testing.T) {
	m := NewManager()
	l := baselineLayer()
	l.ReadOnly = true
	m.AddLayer(l)

	if err := m.UpdateLayer("baseline", &Overlay{}); err == nil {
		t.Error("UpdateLayer on read-only layer should fail")
	}
	if err := m.SetSetting("baseline", "a.b", 1); err == nil {
		t.Error("SetSetting on read-only layer should fail")
	}
}

func TestManagerSetSetting(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())
	m.AddLayer(NewLayer("session", SourceSession, PrioritySession))

	if err := m.SetSetting("session", "content.language", "de"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}

	val, ok := GetPath(m.Resolve().Settings, "content.language")
	if !ok || val != "de" {
		t.Errorf("content.language = %v, want de", val)
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	m.AddLayer(baselineLayer())
	m.Clear()

	if m.LayerCount() != 0 {
		t.Errorf("LayerCount = %d after Clear", m.LayerCount())
	}
	resolved := m.Resolve()
	if len(resolved.Plugins) != 0 || len(resolved.Menu) != 0 {
		t.Errorf("Resolve after Clear not empty: %+v", resolved)
	}
}
