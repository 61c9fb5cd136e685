package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
	// Alert highlights the value, e.g. a non-zero error count.
	Alert bool
}

// RenderSummary prints rows as an aligned two-column block. Widths are
// measured in terminal cells so accented names line up.
func RenderSummary(rows []SummaryRow) string {
	labelWidth, valueWidth := 0, 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	rule := dimStyle.Render(strings.Repeat("─", labelWidth+valueWidth+3))
	lines := []string{rule}
	for _, row := range rows {
		style := valueStyle
		if row.Alert {
			style = alertStyle
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			labelStyle.Width(labelWidth).Render(row.Label),
			dimStyle.Render("│"),
			style.Render(row.Value),
		))
	}
	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	alertStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)
