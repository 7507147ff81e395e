package merge

import "strings"

// Group is one named toolbar group holding an ordered list of command
// tokens.
type Group struct {
	Name  string
	Items []string
}

// Toolbar is an ordered list of toolbar groups. Groups are matched by
// Name (case-sensitive).
type Toolbar []Group

// Clone returns a deep copy of the toolbar.
func (t Toolbar) Clone() Toolbar {
	if t == nil {
		return nil
	}
	out := make(Toolbar, len(t))
	for i, g := range t {
		out[i] = Group{Name: g.Name, Items: cloneTokens(g.Items)}
	}
	return out
}

// Lookup returns the index of the group with the given name, or -1.
func (t Toolbar) Lookup(name string) int {
	for i := range t {
		if t[i].Name == name {
			return i
		}
	}
	return -1
}

// MergeToolbar folds custom toolbars onto a standard toolbar.
//
// A custom group matching an existing group by name concatenates its
// items onto the existing items, with duplicate tokens collapsing to
// their first occurrence. A custom group with a novel name is appended
// as a new trailing group. Customs fold in left-to-right, each against
// the accumulated result. Inputs are never mutated.
func MergeToolbar(standard Toolbar, customs ...Toolbar) Toolbar {
	result := standard.Clone()
	if result == nil {
		result = Toolbar{}
	}

	index := make(map[string]int, len(result))
	for i := range result {
		index[result[i].Name] = i
	}

	for _, custom := range customs {
		for _, group := range custom {
			if i, ok := index[group.Name]; ok {
				result[i].Items = mergeTokens(result[i].Items, group.Items)
				continue
			}
			index[group.Name] = len(result)
			result = append(result, Group{Name: group.Name, Items: cloneTokens(group.Items)})
		}
	}

	return result
}

// mergeTokens concatenates two token lists, trimming tokens, dropping
// empties, and keeping only the first occurrence of each token.
func mergeTokens(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, list := range [][]string{existing, extra} {
		for _, token := range list {
			token = strings.TrimSpace(token)
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			out = append(out, token)
		}
	}
	return out
}

func cloneTokens(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
