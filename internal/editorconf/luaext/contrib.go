package luaext

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richconf/internal/editorconf/layer"
	"github.com/dshills/richconf/internal/editorconf/merge"
)

// LoadOverlay executes a contribution script and converts its returned
// table into an overlay. A script that returns nothing (or nil)
// contributes an empty overlay; any other non-table return value is an
// error.
func LoadOverlay(ctx context.Context, name, source string, opts ...Option) (*layer.Overlay, error) {
	s := NewState(opts...)
	defer s.Close()

	value, err := s.Eval(ctx, name, source)
	if err != nil {
		return nil, err
	}

	if value == nil || value == lua.LNil {
		return &layer.Overlay{}, nil
	}

	tbl, ok := value.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("script %s: contribution must be a table, got %s", name, value.Type())
	}

	return overlayFromTable(name, tbl)
}

// overlayFromTable decodes a contribution table.
func overlayFromTable(name string, tbl *lua.LTable) (*layer.Overlay, error) {
	o := &layer.Overlay{}

	if menu, ok := tableField(tbl, "menu"); ok {
		var err error
		o.Menu, err = menuFromTable(name, menu)
		if err != nil {
			return nil, err
		}
	}

	if toolbar, ok := tableField(tbl, "toolbar"); ok {
		var err error
		o.Toolbar, err = toolbarFromTable(name, toolbar)
		if err != nil {
			return nil, err
		}
	}

	if plugins, ok := tableField(tbl, "plugins"); ok {
		var err error
		o.Plugins, err = stringsFromTable(name, "plugins", plugins)
		if err != nil {
			return nil, err
		}
	}

	if settings, ok := tableField(tbl, "settings"); ok {
		m, ok := toGoValue(settings, make(map[*lua.LTable]bool)).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("script %s: settings must be a table of named values", name)
		}
		o.Settings = m
	}

	return o, nil
}

func menuFromTable(name string, tbl *lua.LTable) (merge.Menu, error) {
	var menu merge.Menu
	var convErr error

	forEachEntry(tbl, func(i int, entry lua.LValue) bool {
		section, ok := entry.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("script %s: menu[%d] must be a table", name, i)
			return false
		}
		key := stringField(section, "key")
		if key == "" {
			convErr = fmt.Errorf("script %s: menu[%d] missing key", name, i)
			return false
		}
		menu = append(menu, merge.Section{
			Key:   key,
			Title: stringField(section, "title"),
			Items: stringField(section, "items"),
		})
		return true
	})

	return menu, convErr
}

func toolbarFromTable(name string, tbl *lua.LTable) (merge.Toolbar, error) {
	var toolbar merge.Toolbar
	var convErr error

	forEachEntry(tbl, func(i int, entry lua.LValue) bool {
		group, ok := entry.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("script %s: toolbar[%d] must be a table", name, i)
			return false
		}
		groupName := stringField(group, "name")
		if groupName == "" {
			convErr = fmt.Errorf("script %s: toolbar[%d] missing name", name, i)
			return false
		}

		var items []string
		if itemsVal, ok := tableField(group, "items"); ok {
			items, convErr = stringsFromTable(name, "toolbar items", itemsVal)
			if convErr != nil {
				return false
			}
		}
		toolbar = append(toolbar, merge.Group{Name: groupName, Items: items})
		return true
	})

	return toolbar, convErr
}

func stringsFromTable(name, field string, tbl *lua.LTable) ([]string, error) {
	var out []string
	var convErr error

	forEachEntry(tbl, func(i int, entry lua.LValue) bool {
		s, ok := entry.(lua.LString)
		if !ok {
			convErr = fmt.Errorf("script %s: %s[%d] must be a string, got %s", name, field, i, entry.Type())
			return false
		}
		out = append(out, string(s))
		return true
	})

	return out, convErr
}

// forEachEntry walks the array part of a table in order, stopping when
// fn returns false.
func forEachEntry(tbl *lua.LTable, fn func(i int, v lua.LValue) bool) {
	n := tbl.Len()
	for i := 1; i <= n; i++ {
		if !fn(i, tbl.RawGetInt(i)) {
			return
		}
	}
}

// tableField returns a table-valued field.
func tableField(tbl *lua.LTable, key string) (*lua.LTable, bool) {
	v := tbl.RawGetString(key)
	t, ok := v.(*lua.LTable)
	return t, ok
}

// stringField returns a string-valued field, or "".
func stringField(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// toGoValue converts a Lua value to its Go equivalent. Integral
// numbers become int64, other numbers float64. Tables convert to
// []any when they are contiguous arrays, map[string]any otherwise.
// Circular tables break to nil; functions and userdata convert to nil.
func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(tbl *lua.LTable, visited map[*lua.LTable]bool) any {
	arrayLen := tbl.Len()
	total := 0
	isArray := arrayLen > 0
	tbl.ForEach(func(k, _ lua.LValue) {
		total++
		if n, ok := k.(lua.LNumber); !ok || float64(n) != float64(int(n)) || int(n) < 1 || int(n) > arrayLen {
			isArray = false
		}
	})

	if isArray && total == arrayLen {
		arr := make([]any, arrayLen)
		for i := 1; i <= arrayLen; i++ {
			arr[i-1] = toGoValue(tbl.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, total)
	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGoValue(v, visited)
	})
	return m
}
