package layer

import "strings"

// DeepMerge recursively merges src into dst and returns dst.
// Nested maps merge recursively; any other value from src replaces the
// value in dst. Values copied from src are cloned, never aliased.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	if src == nil {
		return dst
	}

	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}

	return dst
}

// CloneSettings returns a deep copy of a settings map.
func CloneSettings(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return CloneSettings(v)
	case []any:
		return cloneAnySlice(v)
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		return val
	}
}

func cloneAnySlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}

// GetPath retrieves a value from a nested settings map using a
// dot-separated path.
func GetPath(settings map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(settings)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// SetPath sets a value in a nested settings map, creating intermediate
// maps as needed. Returns false if an intermediate path segment holds a
// non-map value.
func SetPath(settings map[string]any, path string, value any) bool {
	parts := splitPath(path)
	if len(parts) == 0 || settings == nil {
		return false
	}

	current := settings
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			child := make(map[string]any)
			current[part] = child
			current = child
			continue
		}
		childMap, ok := next.(map[string]any)
		if !ok {
			return false
		}
		current = childMap
	}

	current[parts[len(parts)-1]] = value
	return true
}

// splitPath splits a dot-separated path, dropping empty segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
