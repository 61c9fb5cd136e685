package undo

// Pair is one successful rename.
type Pair struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Log holds the renames of the last batch. Only one batch is kept.
type Log struct {
	pairs []Pair
}

func (l *Log) Append(oldPath, newPath string) {
	l.pairs = append(l.pairs, Pair{Old: oldPath, New: newPath})
}

// Pairs returns a copy of the recorded pairs in rename order.
func (l *Log) Pairs() []Pair {
	out := make([]Pair, len(l.pairs))
	copy(out, l.pairs)
	return out
}

// Reset replaces the log contents.
func (l *Log) Reset(pairs []Pair) {
	l.pairs = append([]Pair(nil), pairs...)
}

func (l *Log) Clear() {
	l.pairs = nil
}

func (l *Log) Len() int {
	return len(l.pairs)
}
