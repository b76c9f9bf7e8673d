package sampleformat

import (
	"path/filepath"
	"strings"
)

// FromPath resolves a sample format from a file path that may carry either
// a trailing extension (path.CU8) or an inline annotation (path:CU8), per
// file_info() in the C original. It returns the resolved format and the
// path with any inline annotation stripped; a bare extension is left in
// place. Inline annotations take precedence over extensions. The scan for
// the annotation looks for the last ':' not immediately followed by a path
// separator, so a Windows drive letter ("C:\data.cu8") is not mistaken for
// one.
func FromPath(path string) (Format, string) {
	annotation, stripped := splitAnnotation(path)
	if annotation != "" {
		if f := Parse(annotation); f != None {
			return f, stripped
		}
	}

	ext := filepath.Ext(stripped)
	ext = strings.TrimPrefix(ext, ".")
	return Parse(ext), stripped
}

func splitAnnotation(path string) (annotation, rest string) {
	idx := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] != ':' {
			continue
		}
		if i+1 < len(path) && isPathSeparator(path[i+1]) {
			continue
		}
		idx = i
		break
	}
	if idx < 0 {
		return "", path
	}
	return path[idx+1:], path[:idx]
}

func isPathSeparator(b byte) bool {
	return b == '/' || b == '\\'
}
