// Package registry manages the named strategies used to locate the APP13
// segment in a JPEG buffer.
package registry

import (
	"maps"
	"slices"
)

// Scanner returns the offset of the first APP13 marker in a JPEG buffer.
// It returns a *types.MarkerNotFoundError when there is none.
type Scanner func(b []byte, path string) (int, error)

// scanners maps names to their scanners.
var scanners = make(map[string]Scanner)

// Register registers a scanner under name.
// This is called by the segment package during initialization.
func Register(name string, s Scanner) {
	scanners[name] = s
}

// Get returns the scanner registered under name.
// Returns nil if no scanner is registered for the name.
func Get(name string) Scanner {
	return scanners[name]
}

// Names returns the registered names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(scanners))
}
