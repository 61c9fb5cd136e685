package scanner

import (
	"sort"

	"golang.org/x/text/cases"
)

// Sort orders entries for display. Recursive listings (depth != 0) sort by
// case-folded path so a directory sits next to its descendants. Flat
// listings group files and directories first, then sort by case-folded
// name. reverse flips the whole order.
func Sort(entries []Entry, depth int, filesBeforeDirs, reverse bool) []Entry {
	fold := cases.Fold()

	type keyed struct {
		entry Entry
		group bool
		key   string
	}
	items := make([]keyed, len(entries))
	for i, e := range entries {
		k := keyed{entry: e}
		if depth != 0 {
			k.key = fold.String(e.Path)
		} else {
			k.key = fold.String(e.Name)
			if filesBeforeDirs {
				k.group = e.IsDir
			} else {
				k.group = !e.IsDir
			}
		}
		items[i] = k
	}

	less := func(a, b keyed) bool {
		if a.group != b.group {
			return !a.group
		}
		return a.key < b.key
	}
	sort.SliceStable(items, func(i, j int) bool {
		if reverse {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})

	out := make([]Entry, len(items))
	for i, k := range items {
		out[i] = k.entry
	}
	return out
}
