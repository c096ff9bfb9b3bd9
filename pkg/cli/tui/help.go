package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// PanelHelpContent returns help for the scraper panel
func PanelHelpContent() string {
	items := []HelpItem{
		{"Enter", "Submit the URL for scraping"},
		{"↑ / ↓", "Scroll the preview"},
		{"PgUp / PgDn", "Scroll the preview a page"},
		{"F1", "Toggle help"},
		{"Esc / Ctrl+C", "Quit"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	keyStyle := boldStyle.Foreground(colorPrimary).Width(14)
	for _, item := range items {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}

// renderHelpOverlay renders help as a bordered box sized to the terminal
func renderHelpOverlay(width int) string {
	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)
	if width > 4 {
		overlayStyle = overlayStyle.Width(width - 4)
	}

	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		PanelHelpContent(),
		helpStyle.Render("Press F1 or Esc to close"),
	))
}
