// Package util is a set of utility variables or methods
package util

import (
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// SupportedExt lists the lowercased file extensions accepted as slide assets.
var SupportedExt = mapset.NewSet(
	".jpeg", ".jpg",
	".png",
	".gif",
	".webp",
	".mp4",
)

// IsSupported reports whether name has a supported asset extension, ignoring case.
func IsSupported(name string) bool {
	return SupportedExt.Contains(strings.ToLower(filepath.Ext(name)))
}
