package layer

import (
	"reflect"
	"testing"

	"github.com/dshills/richconf/internal/editorconf/merge"
)

func TestOverlayClone(t *testing.T) {
	o := &Overlay{
		Menu:     merge.Menu{{Key: "edit", Title: "Edit", Items: "undo redo"}},
		Toolbar:  merge.Toolbar{{Name: "History", Items: []string{"undo", "redo"}}},
		Plugins:  []string{"lists", "-emoji"},
		Settings: map[string]any{"content": map[string]any{"language": "en"}},
	}

	clone := o.Clone()
	if !reflect.DeepEqual(clone, o) {
		t.Fatalf("clone differs: %+v != %+v", clone, o)
	}

	clone.Toolbar[0].Items[0] = "changed"
	clone.Plugins[0] = "changed"
	clone.Settings["content"].(map[string]any)["language"] = "de"

	if o.Toolbar[0].Items[0] != "undo" {
		t.Error("mutating clone toolbar changed the original")
	}
	if o.Plugins[0] != "lists" {
		t.Error("mutating clone plugins changed the original")
	}
	if o.Settings["content"].(map[string]any)["language"] != "en" {
		t.Error("mutating clone settings changed the original")
	}
}

func TestOverlayIsEmpty(t *testing.T) {
	var nilOverlay *Overlay
	if !nilOverlay.IsEmpty() {
		t.Error("nil overlay should be empty")
	}
	if !(&Overlay{}).IsEmpty() {
		t.Error("zero overlay should be empty")
	}
	if (&Overlay{Plugins: []string{"lists"}}).IsEmpty() {
		t.Error("overlay with plugins should not be empty")
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		source   Source
		expected string
	}{
		{SourceBuiltin, "builtin"},
		{SourceHost, "host"},
		{SourceWorkspace, "workspace"},
		{SourcePlugin, "plugin"},
		{SourceEnv, "environment"},
		{SourceSession, "session"},
		{Source(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.source.String(); got != tt.expected {
			t.Errorf("Source(%d).String() = %q, want %q", tt.source, got, tt.expected)
		}
	}
}

func TestDefaultPriorityOrdering(t *testing.T) {
	order := []Source{SourceBuiltin, SourceHost, SourceWorkspace, SourcePlugin, SourceEnv, SourceSession}
	for i := 1; i < len(order); i++ {
		lower := DefaultPriority(order[i-1])
		higher := DefaultPriority(order[i])
		if lower >= higher {
			t.Errorf("priority of %s (%d) should be below %s (%d)",
				order[i-1], lower, order[i], higher)
		}
	}
}

func TestNewLayerWithOverlayNil(t *testing.T) {
	l := NewLayerWithOverlay("host", SourceHost, PriorityHost, nil)
	if l.Overlay == nil {
		t.Fatal("nil overlay should be replaced with an empty one")
	}
	if !l.Overlay.IsEmpty() {
		t.Error("replacement overlay should be empty")
	}
}
