package editorconf

import (
	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/merge"
)

// Baseline returns the built-in editor configuration: the menu tree,
// toolbar, plugin list, and settings the widget starts from before any
// overlay folds in.
func Baseline() *layer.Overlay {
	return &layer.Overlay{
		Menu: merge.Menu{
			{Key: "file", Title: "File", Items: "newdocument restoredraft | preview | print"},
			{Key: "edit", Title: "Edit", Items: "undo redo | cut copy paste pastetext | selectall | searchreplace"},
			{Key: "view", Title: "View", Items: "visualaid visualblocks | preview fullscreen"},
			{Key: "insert", Title: "Insert", Items: "link image media | charmap hr | insertdatetime"},
			{Key: "format", Title: "Format", Items: "bold italic underline strikethrough superscript subscript | formats | removeformat"},
			{Key: "tools", Title: "Tools", Items: "spellchecker wordcount | code"},
			{Key: "table", Title: "Table", Items: "inserttable | cell row column | tableprops deletetable"},
		},
		Toolbar: merge.Toolbar{
			{Name: "History", Items: []string{"undo", "redo"}},
			{Name: "Styles", Items: []string{"styleselect"}},
			{Name: "Formatting", Items: []string{"bold", "italic", "underline"}},
			{Name: "Alignment", Items: []string{"alignleft", "aligncenter", "alignright", "alignjustify"}},
			{Name: "Lists", Items: []string{"bullist", "numlist", "outdent", "indent"}},
			{Name: "Links", Items: []string{"link", "unlink", "image"}},
		},
		Plugins: []string{
			"autolink", "charmap", "code", "fullscreen", "hr", "image",
			"insertdatetime", "link", "lists", "media", "paste",
			"searchreplace", "table", "visualblocks", "wordcount",
		},
		Settings: map[string]any{
			"content": map[string]any{
				"language":  "en",
				"direction": "ltr",
			},
			"ui": map[string]any{
				"theme":      "default",
				"menubar":    true,
				"statusbar":  true,
				"branding":   false,
				"fontSize":   int64(14),
				"fontFamily": "sans-serif",
			},
			"behavior": map[string]any{
				"browserSpellcheck": true,
				"pasteAsText":       false,
				"autosaveInterval":  int64(30),
			},
		},
	}
}
