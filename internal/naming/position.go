package naming

// ResolvePosition turns a signed insertion position into an index in
// [0, length]: 0 is the start, -1 or anything at or past length is the end,
// positive values count from the start and values below -1 count back from
// the end (-2 is just before the last character).
func ResolvePosition(pos, length int) int {
	switch {
	case pos == 0:
		return 0
	case pos == -1 || pos >= length:
		return length
	case pos > 0:
		return pos
	default:
		idx := length + pos + 1
		if idx < 0 {
			return 0
		}
		return idx
	}
}

// insertAt inserts s into r at idx with no separator.
func insertAt(r []rune, idx int, s string) string {
	idx = clamp(idx, 0, len(r))
	return string(r[:idx]) + s + string(r[idx:])
}

// splice inserts chunk into r at idx, putting sep between chunk and each
// neighbouring part of r that is not empty.
func splice(r []rune, idx int, chunk, sep string) string {
	idx = clamp(idx, 0, len(r))
	left, right := string(r[:idx]), string(r[idx:])

	out := left
	if left != "" {
		out += sep
	}
	out += chunk
	if right != "" {
		out += sep + right
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
