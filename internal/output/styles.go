package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Named constants for every ANSI 256 color the CLI uses;
// never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: folder paths, step names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "created" folder status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "reused" folder status.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for the "removed" folder status.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for the "failed" folder status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (folder paths, step names).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, descriptions).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Folder status constants.
const (
	StatusCreated = "created"
	StatusReused  = "reused"
	StatusRemoved = "removed"
	StatusFailed  = "failed"
)

// StatusStyle returns the lipgloss style for a folder status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusReused:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusRemoved:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth keeps status words aligned across folder lines.
const minPathColumnWidth = 40

// FormatFolderLine renders a folder path with a right-aligned,
// color-coded status suffix.
//
// Format: d:<path>  <status>
func FormatFolderLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("d:") + StyleNoun.Render(path) +
		strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
