package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: folders, image names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for descriptions and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Styles groups the styles used for summaries.
type Styles struct {
	Bold  lipgloss.Style
	Muted lipgloss.Style
	Noun  lipgloss.Style
}

// GetStyles returns the summary styles.
func GetStyles() *Styles {
	return &Styles{
		Bold:  lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().Foreground(ColorDimGray),
		Noun:  lipgloss.NewStyle().Foreground(ColorCyan),
	}
}

// FormatNoun styles an identifiable noun such as a folder or image name.
func FormatNoun(s string) string {
	return GetStyles().Noun.Render(s)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
