package naming

import (
	"strings"

	"morph/internal/metadata"
)

// HasTokens reports whether name may contain a {tag} token.
func HasTokens(name string) bool {
	open := strings.IndexByte(name, '{')
	return open >= 0 && strings.IndexByte(name[open:], '}') > 0
}

// Interpolate replaces every {tag} in name whose tag is present in tags.
// Braces around unknown names, and unbalanced braces, stay as written.
func Interpolate(name string, tags metadata.Tags) string {
	if len(tags) == 0 {
		return name
	}

	var b strings.Builder
	for {
		open := strings.IndexByte(name, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(name[open+1:], '}')
		if end < 0 {
			break
		}
		key := name[open+1 : open+1+end]

		if value, ok := tags.Lookup(key); ok && key != "" && !strings.ContainsRune(key, '{') {
			b.WriteString(name[:open])
			b.WriteString(value)
			name = name[open+1+end+1:]
			continue
		}
		b.WriteString(name[:open+1])
		name = name[open+1:]
	}
	b.WriteString(name)
	return b.String()
}
