package merge

// Section is one named entry in an editor menu.
type Section struct {
	// Key uniquely identifies the section (e.g. "edit", "insert").
	Key string

	// Title is the display label. Optional; the widget falls back to the key.
	Title string

	// Items is the section's pipe-delimited menu item string.
	Items string
}

// Menu is an ordered collection of menu sections. Sections are looked up
// by Key; order is preserved for output.
type Menu []Section

// Clone returns a copy of the menu.
func (m Menu) Clone() Menu {
	if m == nil {
		return nil
	}
	out := make(Menu, len(m))
	copy(out, m)
	return out
}

// Lookup returns the index of the section with the given key, or -1.
func (m Menu) Lookup(key string) int {
	for i := range m {
		if m[i].Key == key {
			return i
		}
	}
	return -1
}

// MergeMenu folds custom menus onto a standard menu.
//
// A custom section whose key already exists merges its Items via
// MergeMenuItems; the existing section's Title is preserved. A custom
// section with a novel key is appended after all existing sections,
// title and items as given. Sections untouched by any custom menu pass
// through unchanged. Neither the standard menu nor any custom menu is
// mutated.
func MergeMenu(standard Menu, customs ...Menu) Menu {
	result := make(Menu, len(standard))
	copy(result, standard)

	index := make(map[string]int, len(result))
	for i := range result {
		index[result[i].Key] = i
	}

	for _, custom := range customs {
		for _, section := range custom {
			if i, ok := index[section.Key]; ok {
				result[i].Items = MergeMenuItems(result[i].Items, section.Items)
				continue
			}
			index[section.Key] = len(result)
			result = append(result, section)
		}
	}

	return result
}
