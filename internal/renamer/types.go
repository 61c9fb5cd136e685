package renamer

// Item is one planned rename. Index is the item's position in the
// selection as displayed, which numbering and from-file stages use even
// when the batch runs in reverse.
type Item struct {
	Index   int
	Old     string
	New     string
	NewName string
}

func (i Item) Unchanged() bool {
	return i.Old == i.New
}

type PlanOptions struct {
	// Flat is set when the listing was not recursive (depth 0).
	Flat        bool
	BottomToTop bool
	// Reversed is set when the listing itself was sorted in reverse.
	Reversed bool
}

type ProgressUpdate struct {
	TotalDelta   int
	RenamedDelta int
	SkippedDelta int
	ErrorDelta   int
}

type Report struct {
	Total   int
	Renamed int
	Skipped int
	Errors  []error
	// Err is set when the batch stopped early.
	Err error
}
