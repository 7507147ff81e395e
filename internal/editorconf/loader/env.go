package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/richconf/internal/editorconf/layer"
)

// EnvLoader builds an overlay from environment variables.
//
// With prefix "RICHCONF_":
//
//	RICHCONF_PLUGINS="wordcount,-emoji"      raw plugin tokens
//	RICHCONF_SETTINGS_CONTENT_LANGUAGE="de"  settings.content.language
//
// Settings variable names map to dotted paths: the first segment after
// SETTINGS_ is the section (lowercased), remaining segments form the
// setting name in camelCase.
type EnvLoader struct {
	prefix  string            // e.g. "RICHCONF_"
	mapping map[string]string // explicit env var -> settings path overrides
}

// NewEnvLoader creates an environment loader.
// The prefix should include the trailing underscore (e.g. "RICHCONF_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, mapping: make(map[string]string)}
}

// AddMapping maps an environment variable directly to a settings path,
// bypassing the automatic name conversion.
func (l *EnvLoader) AddMapping(envVar, settingsPath string) {
	l.mapping[envVar] = settingsPath
}

// Load reads prefixed environment variables into an overlay.
// Empty string values count as set.
func (l *EnvLoader) Load() (*layer.Overlay, error) {
	o := &layer.Overlay{}

	if raw, ok := os.LookupEnv(l.prefix + "PLUGINS"); ok {
		o.Plugins = splitTokens(raw)
	}

	for envVar, path := range l.mapping {
		if val, ok := os.LookupEnv(envVar); ok {
			l.setSetting(o, path, val)
		}
	}

	settingsPrefix := l.prefix + "SETTINGS_"
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, settingsPrefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}

		path := envToPath(strings.TrimPrefix(name, settingsPrefix))
		if path == "" {
			continue
		}
		l.setSetting(o, path, value)
	}

	return o, nil
}

func (l *EnvLoader) setSetting(o *layer.Overlay, path, raw string) {
	if o.Settings == nil {
		o.Settings = make(map[string]any)
	}
	layer.SetPath(o.Settings, path, parseValue(raw))
}

// splitTokens splits a comma-separated token list, trimming entries and
// dropping empties.
func splitTokens(raw string) []string {
	var tokens []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// envToPath converts CONTENT_LANGUAGE_CODE to content.languageCode.
func envToPath(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part == "" {
			continue
		}
		setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}

	return section + "." + setting
}

// parseValue coerces an environment string to bool, int, float, JSON
// array/object, or string.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}
