package naming

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatNumber renders n in the given base and left-pads it to pad
// characters. Numeric bases pad with '0'; letter bases count a..z, aa, ab,
// ... and pad with 'a' (or 'A').
func FormatNumber(n int, base NumberBase, pad int) string {
	neg := n < 0
	if neg {
		n = -n
	}

	var s string
	padChar := "0"
	switch base {
	case Base2:
		s = strconv.FormatInt(int64(n), 2)
	case Base8:
		s = strconv.FormatInt(int64(n), 8)
	case Base16:
		s = strconv.FormatInt(int64(n), 16)
	case LowerLetters:
		s, padChar = letters(n, 'a'), "a"
	case UpperLetters:
		s, padChar = letters(n, 'A'), "A"
	default:
		s = strconv.Itoa(n)
	}

	if missing := pad - utf8.RuneCountInString(s); missing > 0 {
		s = strings.Repeat(padChar, missing) + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

func letters(n int, first byte) string {
	buf := []byte{first + byte(n%26)}
	n /= 26
	for n > 0 {
		n--
		buf = append(buf, first+byte(n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
