// Package editorconf composes rich-content-editor configuration.
//
// The editor widget is configured by a single init document: a menu
// tree, a toolbar, a plugin activation list, and scalar settings. That
// document is never written by one party. The built-in baseline defines
// the stock editor; the host application, the open workspace, installed
// feature plugins, environment variables, and the user's session each
// contribute an overlay. Config folds the overlays in priority order
// and hands the result to the widget:
//
//	cfg := editorconf.New(
//		editorconf.WithHostConfigDir("/etc/app"),
//		editorconf.WithWorkspaceConfigDir("./.app"),
//	)
//	if err := cfg.Load(ctx); err != nil { ... }
//	defer cfg.Close()
//
//	doc, err := cfg.InitJSON()
//
// Merging is append-oriented: an overlay extends the menus, toolbar
// groups, and plugin list it names rather than replacing them, and
// duplicate entries keep their first position. Plugin tokens starting
// with "-" exclude a plugin from the final list. The merge rules
// themselves live in the merge subpackage; layer holds the overlay
// stack, loader reads TOML/JSON/environment overlays, luaext runs
// sandboxed plugin contribution scripts, and watcher with notify drive
// live reload.
package editorconf
