package loader

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/merge"
)

// JSONLoader loads overlay documents from JSON files. The document
// shape matches the TOML loader:
//
//	{
//	  "settings": {"content": {"language": "en"}},
//	  "menu": [{"key": "tools", "title": "Tools", "items": "wordcount"}],
//	  "toolbar": [{"name": "Formatting", "items": ["strikethrough"]}],
//	  "plugins": ["wordcount", "-emoji"]
//	}
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader creates a JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{fs: DefaultFS(), path: path}
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{fs: fs, path: path}
}

// Load reads the overlay from the configured path.
// Returns nil, nil if the file doesn't exist.
func (l *JSONLoader) Load() (*layer.Overlay, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads an overlay from a specific path.
func (l *JSONLoader) LoadFrom(path string) (*layer.Overlay, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading overlay file %s: %w", path, err)
	}

	return l.Parse(path, data)
}

// Parse decodes a JSON overlay document.
func (l *JSONLoader) Parse(source string, data []byte) (*layer.Overlay, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}

	doc := gjson.ParseBytes(data)
	o := &layer.Overlay{}

	if settings := doc.Get("settings"); settings.Exists() {
		m, ok := settings.Value().(map[string]any)
		if !ok {
			return nil, &ParseError{Path: source, Message: "settings must be an object"}
		}
		o.Settings = m
	}

	var parseErr *ParseError
	doc.Get("menu").ForEach(func(_, section gjson.Result) bool {
		key := section.Get("key").String()
		if key == "" {
			parseErr = &ParseError{Path: source, Message: "menu section missing key"}
			return false
		}
		o.Menu = append(o.Menu, merge.Section{
			Key:   key,
			Title: section.Get("title").String(),
			Items: section.Get("items").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	doc.Get("toolbar").ForEach(func(_, group gjson.Result) bool {
		name := group.Get("name").String()
		if name == "" {
			parseErr = &ParseError{Path: source, Message: "toolbar group missing name"}
			return false
		}
		var items []string
		group.Get("items").ForEach(func(_, item gjson.Result) bool {
			items = append(items, item.String())
			return true
		})
		o.Toolbar = append(o.Toolbar, merge.Group{Name: name, Items: items})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	doc.Get("plugins").ForEach(func(_, plugin gjson.Result) bool {
		o.Plugins = append(o.Plugins, plugin.String())
		return true
	})

	return o, nil
}

// Patch sets a single value in the JSON overlay document on disk,
// creating the file if it doesn't exist. Unrelated keys are left
// untouched. Used to persist session overrides.
func (l *JSONLoader) Patch(path string, value any) error {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading overlay file %s: %w", l.path, err)
		}
		data = []byte("{}")
	}

	patched, err := sjson.SetBytes(data, path, value)
	if err != nil {
		return fmt.Errorf("patching %s in %s: %w", path, l.path, err)
	}

	if err := l.fs.WriteFile(l.path, patched); err != nil {
		return fmt.Errorf("writing overlay file %s: %w", l.path, err)
	}
	return nil
}
