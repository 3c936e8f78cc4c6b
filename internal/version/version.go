// Package version exposes the build version embedded at compile time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// Get returns the current langelot version.
func Get() string {
	return strings.TrimSpace(raw)
}
