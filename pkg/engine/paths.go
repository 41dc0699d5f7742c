package engine

import (
	"path"
	"strings"
)

// ResolvePath resolves src as referenced from the resource at base.
// "@/" marks a path relative to the project root, anything else is relative
// to the directory of base.
func ResolvePath(src, base string) string {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "@/") {
		return path.Clean(strings.TrimPrefix(src, "@/"))
	}
	if strings.HasPrefix(src, "/") {
		return path.Clean(strings.TrimPrefix(src, "/"))
	}
	return path.Join(path.Dir(base), src)
}
