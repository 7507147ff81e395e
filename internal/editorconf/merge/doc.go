// Package merge implements the merge semantics for rich-content editor
// configuration: menu item strings, menu sections, toolbar groups, and
// plugin lists.
//
// All functions are pure. Inputs are never mutated; every call allocates
// fresh output. Duplicate entries collapse to their first occurrence, so
// baseline entries always keep their position and newly contributed
// entries append after them.
package merge
