package common

import (
	"path/filepath"
	"strings"
)

// IsSafePath reports whether userPath resolves to a location inside baseDir,
// guarding against path traversal. Resolution failures count as unsafe.
func IsSafePath(baseDir, userPath string) bool {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return false
	}
	p, err := filepath.Abs(userPath)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
