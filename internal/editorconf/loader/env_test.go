package loader

import (
	"reflect"
	"testing"

	"github.com/dshills/richconf/internal/editorconf/layer"
)

func TestEnvLoaderPlugins(t *testing.T) {
	t.Setenv("RICHCONF_PLUGINS", "wordcount, -emoji ,table")

	overlay, err := NewEnvLoader("RICHCONF_").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"wordcount", "-emoji", "table"}
	if !reflect.DeepEqual(overlay.Plugins, want) {
		t.Errorf("Plugins = %v, want %v", overlay.Plugins, want)
	}
}

func TestEnvLoaderSettings(t *testing.T) {
	t.Setenv("RICHCONF_SETTINGS_CONTENT_LANGUAGE", "de")
	t.Setenv("RICHCONF_SETTINGS_UI_FONT_SIZE", "14")
	t.Setenv("RICHCONF_SETTINGS_UI_SHOW_MENUBAR", "false")

	overlay, err := NewEnvLoader("RICHCONF_").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if val, _ := layer.GetPath(overlay.Settings, "content.language"); val != "de" {
		t.Errorf("content.language = %v, want de", val)
	}
	if val, _ := layer.GetPath(overlay.Settings, "ui.fontSize"); val != int64(14) {
		t.Errorf("ui.fontSize = %v (%T), want int64 14", val, val)
	}
	if val, _ := layer.GetPath(overlay.Settings, "ui.showMenubar"); val != false {
		t.Errorf("ui.showMenubar = %v, want false", val)
	}
}

func TestEnvLoaderExplicitMapping(t *testing.T) {
	t.Setenv("EDITOR_LANG", "fr")

	l := NewEnvLoader("RICHCONF_")
	l.AddMapping("EDITOR_LANG", "content.language")

	overlay, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if val, _ := layer.GetPath(overlay.Settings, "content.language"); val != "fr" {
		t.Errorf("content.language = %v, want fr", val)
	}
}

func TestEnvLoaderNothingSet(t *testing.T) {
	overlay, err := NewEnvLoader("RICHCONF_TEST_UNSET_").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !overlay.IsEmpty() {
		t.Errorf("expected empty overlay, got %+v", overlay)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{name: "true", input: "true", expected: true},
		{name: "yes", input: "yes", expected: true},
		{name: "off", input: "off", expected: false},
		{name: "int", input: "42", expected: int64(42)},
		{name: "float", input: "1.5", expected: 1.5},
		{name: "json array", input: `["a","b"]`, expected: []any{"a", "b"}},
		{name: "string", input: "dark", expected: "dark"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseValue(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("parseValue(%q) = %v (%T), want %v (%T)",
					tt.input, result, result, tt.expected, tt.expected)
			}
		})
	}
}

func TestEnvToPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "two segments", input: "CONTENT_LANGUAGE", expected: "content.language"},
		{name: "camel case tail", input: "UI_FONT_SIZE", expected: "ui.fontSize"},
		{name: "single segment", input: "MENUBAR", expected: "menubar"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envToPath(tt.input); got != tt.expected {
				t.Errorf("envToPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
