package merge

import "strings"

// GroupSeparator joins menu item groups in a rendered item string.
const GroupSeparator = " | "

// MergeMenuItems combines pipe-delimited menu item strings.
//
// The standard string is split into groups on "|", each group trimmed,
// then the groups of each custom string are appended in call order.
// Duplicate groups keep their first occurrence; a group contributed
// again later neither moves nor repeats. Empty groups (for example from
// consecutive pipes) are dropped.
//
// With no customs the result is the standard string normalized: groups
// trimmed and re-joined with " | ".
func MergeMenuItems(standard string, customs ...string) string {
	groups := SplitGroups(standard)
	for _, custom := range customs {
		groups = append(groups, SplitGroups(custom)...)
	}

	seen := make(map[string]bool, len(groups))
	kept := make([]string, 0, len(groups))
	for _, group := range groups {
		if seen[group] {
			continue
		}
		seen[group] = true
		kept = append(kept, group)
	}

	return strings.Join(kept, GroupSeparator)
}

// SplitGroups splits a menu item string into its ordered groups.
// Groups are trimmed; empty groups are dropped.
func SplitGroups(items string) []string {
	if items == "" {
		return nil
	}

	var groups []string
	for _, group := range strings.Split(items, "|") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		groups = append(groups, group)
	}
	return groups
}
