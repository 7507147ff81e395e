package merge

import (
	"reflect"
	"testing"
)

func TestMergeMenuItems(t *testing.T) {
	tests := []struct {
		name     string
		standard string
		customs  []string
		expected string
	}{
		{
			name:     "no customs returns normalized standard",
			standard: "foo bar | baz",
			expected: "foo bar | baz",
		},
		{
			name:     "no customs trims groups",
			standard: "  foo bar |  baz  ",
			expected: "foo bar | baz",
		},
		{
			name:     "empty standard",
			standard: "",
			customs:  []string{"fizz buzz"},
			expected: "fizz buzz",
		},
		{
			name:     "novel groups append",
			standard: "foo bar | baz",
			customs:  []string{"fizz buzz | baz"},
			expected: "foo bar | baz | fizz buzz",
		},
		{
			name:     "leading duplicate collapses and trailing space trims",
			standard: "foo bar | baz",
			customs:  []string{"baz | fizz buzz "},
			expected: "foo bar | baz | fizz buzz",
		},
		{
			name:     "multiple customs fold left to right",
			standard: "a | b",
			customs:  []string{"c | a", "d | c | b"},
			expected: "a | b | c | d",
		},
		{
			name:     "consecutive pipes drop empty groups",
			standard: "a || b",
			customs:  []string{"| c |"},
			expected: "a | b | c",
		},
		{
			name:     "whitespace-only group dropped",
			standard: "a |   | b",
			expected: "a | b",
		},
		{
			name:     "internal whitespace keeps groups distinct",
			standard: "a  b",
			customs:  []string{"a b"},
			expected: "a  b | a b",
		},
		{
			name:     "all empty",
			standard: "",
			customs:  []string{"", "   "},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MergeMenuItems(tt.standard, tt.customs...)
			if result != tt.expected {
				t.Errorf("MergeMenuItems(%q, %v) = %q, want %q",
					tt.standard, tt.customs, result, tt.expected)
			}
		})
	}
}

func TestMergeMenuItemsIdempotent(t *testing.T) {
	custom := "fizz buzz | baz"
	once := MergeMenuItems("foo bar | baz", custom)
	twice := MergeMenuItems(once, custom)
	if once != twice {
		t.Errorf("second merge changed result: %q -> %q", once, twice)
	}
}

func TestSplitGroups(t *testing.T) {
	tests := []struct {
		name     string
		items    string
		expected []string
	}{
		{name: "empty", items: "", expected: nil},
		{name: "single group", items: "undo redo", expected: []string{"undo redo"}},
		{name: "trims and drops empties", items: " a | | b |", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitGroups(tt.items)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitGroups(%q) = %v, want %v", tt.items, result, tt.expected)
			}
		})
	}
}
