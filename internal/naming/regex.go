package naming

import (
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single user pattern evaluation.
const matchTimeout = 2 * time.Second

func compilePattern(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = matchTimeout
	return re, nil
}

// compileAnchored compiles pattern so it only matches at the start of the
// input.
func compileAnchored(pattern string) (*regexp2.Regexp, error) {
	return compilePattern(`\A(?:` + pattern + `)`)
}

// wildcardPattern turns the first '*' of a crop pattern into a lazy
// any-character run.
func wildcardPattern(text string) string {
	return strings.Replace(text, "*", ".*?", 1)
}

// expandGroups replaces /N tokens in tmpl with capture group N. When the
// digit run names no group, the longest prefix that does is used; a token
// with no valid group is kept verbatim.
func expandGroups(tmpl string, groups []string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '/' {
			b.WriteByte(tmpl[i])
			continue
		}

		j := i + 1
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}

		matched := false
		for end := j; end > i+1; end-- {
			n, err := strconv.Atoi(tmpl[i+1 : end])
			if err == nil && n < len(groups) {
				b.WriteString(groups[n])
				i = end - 1
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte('/')
		}
	}
	return b.String()
}
