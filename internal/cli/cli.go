// Package cli provides shared terminal output helpers for tracelink commands.
package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Status indicators
const (
	CheckMark = "✓"
	CrossMark = "✗"
	Bullet    = "●"
	Circle    = "○"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// colorsEnabled caches whether styled output should be used.
var colorsEnabled *bool

// ColorsEnabled reports whether stdout styling is allowed: disabled by the
// NO_COLOR convention, forced on/off by ForceColors.
func ColorsEnabled() bool {
	if colorsEnabled != nil {
		return *colorsEnabled
	}
	enabled := os.Getenv("NO_COLOR") == ""
	colorsEnabled = &enabled
	return enabled
}

// ForceColors enables or disables styling regardless of environment.
func ForceColors(enabled bool) {
	colorsEnabled = &enabled
}

func render(style lipgloss.Style, s string) string {
	if !ColorsEnabled() {
		return s
	}
	return style.Render(s)
}

// Success renders s in the success color.
func Success(s string) string { return render(successStyle, s) }

// Warn renders s in the warning color.
func Warn(s string) string { return render(warnStyle, s) }

// Error renders s in the error color.
func Error(s string) string { return render(errorStyle, s) }

// Dim renders s faint, for secondary detail.
func Dim(s string) string { return render(dimStyle, s) }
