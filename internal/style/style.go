// Package style provides consistent terminal styling using Lipgloss.
package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Success style for positive outcomes (green)
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7FD962"}).
		Bold(true)

	// Warning style for cautionary messages (yellow)
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB454"}).
		Bold(true)

	// Error style for failures (red)
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#F07178"}).
		Bold(true)

	// Info style for informational messages (blue)
	Info = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#59C2FF"})

	// Dim style for secondary information (gray)
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#757575", Dark: "#8A9199"})

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// Fprintf writes a line prefixed with a styled marker.
func Fprintf(w io.Writer, prefix, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// KeyValues renders aligned "key  value" lines with dimmed keys.
func KeyValues(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	key := Dim.Width(width + 2)

	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString("  ")
		sb.WriteString(key.Render(p[0]))
		sb.WriteString(p[1])
		sb.WriteByte('\n')
	}
	return sb.String()
}
