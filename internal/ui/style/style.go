// Package style provides shared styling primitives, colors and icons, for
// consistent presentation across the CLI and log output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Dim    = lipgloss.Color("#475063")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// Header renders a section heading for command output.
var Header = lipgloss.NewStyle().Bold(true)

// Label renders a key column in aligned key/value command output.
var Label = lipgloss.NewStyle().Foreground(Slate).Width(18)
