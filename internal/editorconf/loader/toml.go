package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/merge"
)

// TOMLLoader loads overlay documents from TOML files.
//
// Document shape:
//
//	[settings]
//	[settings.content]
//	language = "en"
//
//	[[menu]]
//	key = "tools"
//	title = "Tools"
//	items = "wordcount | charcount"
//
//	[[toolbar]]
//	name = "Formatting"
//	items = ["strikethrough"]
//
//	plugins = ["wordcount", "-emoji"]
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{fs: DefaultFS(), path: path}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fs, path: path}
}

// Load reads the overlay from the configured path.
// Returns nil, nil if the file doesn't exist.
func (l *TOMLLoader) Load() (*layer.Overlay, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads an overlay from a specific path.
func (l *TOMLLoader) LoadFrom(path string) (*layer.Overlay, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading overlay file %s: %w", path, err)
	}

	return l.parse(path, data)
}

// LoadFromReader reads an overlay from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (*layer.Overlay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading overlay: %w", err)
	}

	return l.parse("<reader>", data)
}

// overlayDoc mirrors the on-disk overlay document shape.
type overlayDoc struct {
	Settings map[string]any `toml:"settings"`
	Menu     []sectionDoc   `toml:"menu"`
	Toolbar  []groupDoc     `toml:"toolbar"`
	Plugins  []string       `toml:"plugins"`
}

type sectionDoc struct {
	Key   string `toml:"key"`
	Title string `toml:"title"`
	Items string `toml:"items"`
}

type groupDoc struct {
	Name  string   `toml:"name"`
	Items []string `toml:"items"`
}

func (l *TOMLLoader) parse(source string, data []byte) (*layer.Overlay, error) {
	var doc overlayDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	return docToOverlay(source, doc)
}

// docToOverlay converts a decoded document into an overlay, validating
// required fields.
func docToOverlay(source string, doc overlayDoc) (*layer.Overlay, error) {
	o := &layer.Overlay{
		Plugins:  doc.Plugins,
		Settings: doc.Settings,
	}

	for _, s := range doc.Menu {
		if s.Key == "" {
			return nil, &ParseError{Path: source, Message: "menu section missing key"}
		}
		o.Menu = append(o.Menu, merge.Section{Key: s.Key, Title: s.Title, Items: s.Items})
	}

	for _, g := range doc.Toolbar {
		if g.Name == "" {
			return nil, &ParseError{Path: source, Message: "toolbar group missing name"}
		}
		o.Toolbar = append(o.Toolbar, merge.Group{Name: g.Name, Items: g.Items})
	}

	return o, nil
}
