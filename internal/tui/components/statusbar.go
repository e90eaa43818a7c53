package components

import (
	"strings"

	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the loaded forecast.
type StatusInfo struct {
	Source      string
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	Error       string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Unfavorable).Background(t.Surface)
	liveStyle := lipgloss.NewStyle().Foreground(t.Favorable).Background(t.Surface)

	left := base.Render(" ") +
		keyStyle.Render("?") + base.Render(" help  ") +
		keyStyle.Render("←→") + base.Render(" period  ") +
		keyStyle.Render("r") + base.Render(" recompute  ") +
		keyStyle.Render("q") + base.Render(" quit")

	var right []string
	switch {
	case info.Error != "":
		right = append(right, errStyle.Render("✗ "+truncate(info.Error, 40)))
	case info.Refreshing:
		right = append(right, base.Render("recomputing…"))
	}
	if info.AutoRefresh {
		right = append(right, liveStyle.Render("● live"))
	}
	if info.Source != "" {
		right = append(right, base.Render(truncate(info.Source, 32)))
	}
	if info.DataAge != "" {
		right = append(right, base.Render(info.DataAge))
	}
	rightStr := strings.Join(right, base.Render("  ")) + base.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
