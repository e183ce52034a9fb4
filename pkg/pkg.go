//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of the pype module embedded at
// build time, trimmed of surrounding whitespace.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text and default config paths.
	Name = "pype"
	// Description is a short, human-readable summary of the project used
	// in help output and documentation.
	Description = "Apply a chain of expressions to each line of input"
)
