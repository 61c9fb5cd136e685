package naming

import "strings"

// SplitExt separates name into stem and extension at the last dot. The
// extension keeps its leading dot. A name whose only dot is its first
// character (".bashrc") has no extension.
func SplitExt(name string) (string, string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}
