package renamer

import (
	"path/filepath"

	"morph/internal/naming"
)

// ShouldReverse reports whether a selection must run last-to-first. In a
// recursive listing sorted ascending, children follow their parent, so
// running in reverse renames contents before the directory holding them.
func ShouldReverse(flat, bottomToTop, reversed bool) bool {
	return (flat && bottomToTop) || (!flat && !reversed)
}

// Plan computes the new name of every selected path and returns the items
// in execution order. Each path's index is its position in selection.
func Plan(p *naming.Pipeline, selection []string, cfgs []naming.Config, opts PlanOptions) []Item {
	items := make([]Item, len(selection))
	for i, path := range selection {
		name := filepath.Base(path)
		newName := p.Chain(name, i, path, cfgs)
		items[i] = Item{
			Index:   i,
			Old:     path,
			New:     filepath.Join(filepath.Dir(path), newName),
			NewName: newName,
		}
		if newName == name {
			items[i].New = path
		}
	}

	if ShouldReverse(opts.Flat, opts.BottomToTop, opts.Reversed) {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}
