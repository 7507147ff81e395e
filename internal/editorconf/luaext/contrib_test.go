package luaext

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/merge"
)

func TestLoadOverlay(t *testing.T) {
	const script = `
return {
  plugins = { "wordcount", "-emoji" },
  menu = {
    { key = "tools", title = "Tools", items = "wordcount | charcount" },
  },
  toolbar = {
    { name = "Tools", items = { "wordcount" } },
  },
  settings = {
    wordcount = { countSpaces = false, maxWords = 10000 },
  },
}
`
	overlay, err := LoadOverlay(context.Background(), "wordcount", script)
	if err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}

	want := &layer.Overlay{
		Menu:    merge.Menu{{Key: "tools", Title: "Tools", Items: "wordcount | charcount"}},
		Toolbar: merge.Toolbar{{Name: "Tools", Items: []string{"wordcount"}}},
		Plugins: []string{"wordcount", "-emoji"},
		Settings: map[string]any{
			"wordcount": map[string]any{
				"countSpaces": false,
				"maxWords":    int64(10000),
			},
		},
	}
	if !reflect.DeepEqual(overlay, want) {
		t.Errorf("overlay = %+v, want %+v", overlay, want)
	}
}

func TestLoadOverlayComputedContribution(t *testing.T) {
	// Scripts can compute their contribution with the pure stdlib.
	const script = `
local buttons = {}
for i = 1, 3 do
  buttons[i] = "macro" .. i
end
return { toolbar = { { name = "Macros", items = buttons } } }
`
	overlay, err := LoadOverlay(context.Background(), "macros", script)
	if err != nil {
		t.Fatalf("LoadOverlay: %v", err)
	}

	want := merge.Toolbar{{Name: "Macros", Items: []string{"macro1", "macro2", "macro3"}}}
	if !reflect.DeepEqual(overlay.Toolbar, want) {
		t.Errorf("Toolbar = %+v, want %+v", overlay.Toolbar, want)
	}
}

func TestLoadOverlayEmptyReturn(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "no return", script: `local x = 1`},
		{name: "return nil", script: `return nil`},
		{name: "empty table", script: `return {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay, err := LoadOverlay(context.Background(), tt.name, tt.script)
			if err != nil {
				t.Fatalf("LoadOverlay: %v", err)
			}
			if !overlay.IsEmpty() {
				t.Errorf("expected empty overlay, got %+v", overlay)
			}
		})
	}
}

func TestLoadOverlayErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{name: "syntax error", script: `return {`, wantErr: "loading script"},
		{name: "runtime error", script: `error("boom")`, wantErr: "boom"},
		{name: "non-table return", script: `return "nope"`, wantErr: "must be a table"},
		{name: "menu entry not table", script: `return { menu = { "nope" } }`, wantErr: "menu[1] must be a table"},
		{name: "menu entry missing key", script: `return { menu = { { title = "X" } } }`, wantErr: "missing key"},
		{name: "toolbar entry missing name", script: `return { toolbar = { { items = {} } } }`, wantErr: "missing name"},
		{name: "plugin not string", script: `return { plugins = { 42 } }`, wantErr: "plugins[1] must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOverlay(context.Background(), tt.name, tt.script)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOverlayTimeout(t *testing.T) {
	_, err := LoadOverlay(context.Background(), "spin", `while true do end`,
		WithTimeout(100*time.Millisecond))
	if err == nil {
		t.Fatal("looping script should time out")
	}
}

func TestSandboxBlocksUnsafeGlobals(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "os library closed", script: `return { plugins = { os.getenv("HOME") } }`},
		{name: "io library closed", script: `return { plugins = { io.read() } }`},
		{name: "loadstring removed", script: `return loadstring("return {}")()`},
		{name: "dofile removed", script: `return dofile("/etc/passwd")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadOverlay(context.Background(), tt.name, tt.script); err == nil {
				t.Error("sandboxed script should fail")
			}
		})
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close() // idempotent

	if _, err := s.Eval(context.Background(), "x", `return 1`); err != ErrStateClosed {
		t.Errorf("Eval after Close = %v, want ErrStateClosed", err)
	}
}
