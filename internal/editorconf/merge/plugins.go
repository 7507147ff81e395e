package merge

import "strings"

// ExclusionMarker prefixes a plugin token that requests removal rather
// than activation (e.g. "-emoji").
const ExclusionMarker = "-"

// MergePlugins combines a standard plugin list with custom additions
// and applies exclusions.
//
// The standard list is assumed deduplicated and leads the result. Each
// custom entry not already present appends in its original relative
// order. Every name in exclude is then filtered from the combined list,
// whether it came from the standard or the custom side. Inputs are
// never mutated.
func MergePlugins(standard, custom, exclude []string) []string {
	seen := make(map[string]bool, len(standard)+len(custom))
	result := make([]string, 0, len(standard)+len(custom))

	for _, name := range standard {
		seen[name] = true
		result = append(result, name)
	}
	for _, name := range custom {
		if seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}

	if len(exclude) == 0 {
		return result
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	kept := result[:0:0]
	for _, name := range result {
		if excluded[name] {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

// ParsePluginsToExclude extracts the exclusions from a raw plugin token
// list: tokens carrying the leading "-" marker, in order, with the
// marker stripped. Unmarked tokens are omitted entirely.
func ParsePluginsToExclude(tokens []string) []string {
	var exclusions []string
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if !strings.HasPrefix(token, ExclusionMarker) {
			continue
		}
		name := strings.TrimPrefix(token, ExclusionMarker)
		if name == "" {
			continue
		}
		exclusions = append(exclusions, name)
	}
	return exclusions
}

// StripExclusions returns the unmarked tokens of a raw plugin token
// list: the plugins to activate, in order, with marked tokens omitted.
func StripExclusions(tokens []string) []string {
	var includes []string
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" || strings.HasPrefix(token, ExclusionMarker) {
			continue
		}
		includes = append(includes, token)
	}
	return includes
}
