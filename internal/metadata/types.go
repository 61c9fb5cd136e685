package metadata

import (
	"errors"
	"sort"
	"strings"

	"morph/pkg/mediautil"
)

// ErrUnsupported is returned for files whose format exposes no readable tags.
var ErrUnsupported = errors.New("unsupported file type")

// Tags maps a tag name to its first value.
type Tags map[string]string

// Add records value under name unless the tag already has a value.
func (t Tags) Add(name, value string) {
	if name == "" {
		return
	}
	if _, ok := t[name]; ok {
		return
	}
	t[name] = value
}

// Lookup finds a tag by exact name, falling back to a case-insensitive match.
func (t Tags) Lookup(name string) (string, bool) {
	if v, ok := t[name]; ok {
		return v, true
	}
	for k, v := range t {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Names returns the tag names in sorted order.
func (t Tags) Names() []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Job struct {
	Index int
	Path  string
}

type Report struct {
	Path string
	Kind mediautil.Kind
	Tags Tags
	Err  error
}
