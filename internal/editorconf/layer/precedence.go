package layer

// Standard priority levels for configuration layers.
// Higher values fold in later and append after lower values.
const (
	// PriorityBuiltin is the lowest priority, for the built-in baseline.
	PriorityBuiltin = 0

	// PriorityHost is for the host application overlay.
	PriorityHost = 100

	// PriorityWorkspace is for workspace/project overlays.
	PriorityWorkspace = 200

	// PriorityPlugin is for plugin contribution overlays.
	PriorityPlugin = 300

	// PriorityEnv is for environment variable overrides.
	PriorityEnv = 400

	// PrioritySession is the highest priority, for session overrides.
	PrioritySession = 1000
)

// DefaultPriority returns the default priority for a source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceBuiltin:
		return PriorityBuiltin
	case SourceHost:
		return PriorityHost
	case SourceWorkspace:
		return PriorityWorkspace
	case SourcePlugin:
		return PriorityPlugin
	case SourceEnv:
		return PriorityEnv
	case SourceSession:
		return PrioritySession
	default:
		return PriorityBuiltin
	}
}

// StandardLayerNames defines standard names for configuration layers.
var StandardLayerNames = map[Source]string{
	SourceBuiltin:   "baseline",
	SourceHost:      "host",
	SourceWorkspace: "workspace",
	SourcePlugin:    "plugin",
	SourceEnv:       "environment",
	SourceSession:   "session",
}

// StandardLayerName returns the standard name for a source.
func StandardLayerName(source Source) string {
	if name, ok := StandardLayerNames[source]; ok {
		return name
	}
	return "unknown"
}
