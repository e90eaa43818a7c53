package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderWarningsTab(cw, contentH int) string {
	t := theme.Active
	warnings := a.result.Warnings

	okStyle := lipgloss.NewStyle().Foreground(t.Favorable).Background(t.Surface)
	codeStyle := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface).Bold(true)
	periodStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(warnings) == 0 {
		return components.ContentCard("Warnings", okStyle.Render("✓ All actual entries merged cleanly."), cw)
	}

	// Counts by code
	counts := warningCounts(warnings)
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)
	var summary strings.Builder
	for i, c := range codes {
		if i > 0 {
			summary.WriteString(dimStyle.Render("  "))
		}
		summary.WriteString(codeStyle.Render(c))
		summary.WriteString(periodStyle.Render(fmt.Sprintf(" ×%d", counts[model.WarningCode(c)])))
	}

	innerW := components.CardInnerWidth(cw)
	rows := contentH - 10
	if rows < 1 {
		rows = 1
	}
	start := a.warnOffset
	end := start + rows
	if end > len(warnings) {
		end = len(warnings)
	}

	var list strings.Builder
	for i, w := range warnings[start:end] {
		period := ""
		if w.Period > 0 {
			period = fmt.Sprintf("P%d", w.Period)
		}
		prefix := fmt.Sprintf("%-22s %-5s ", w.Code, period)
		list.WriteString(codeStyle.Render(fmt.Sprintf("%-22s ", w.Code)))
		list.WriteString(periodStyle.Render(fmt.Sprintf("%-5s ", period)))
		list.WriteString(msgStyle.Render(truncStr(w.Message, innerW-lipgloss.Width(prefix))))
		if i < end-start-1 {
			list.WriteString("\n")
		}
	}
	list.WriteString("\n\n")
	list.WriteString(dimStyle.Render(fmt.Sprintf("[j/k] scroll  %d-%d of %d", start+1, end, len(warnings))))

	var b strings.Builder
	b.WriteString(components.ContentCard(fmt.Sprintf("Warnings · %d", len(warnings)), summary.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Details", list.String(), cw))
	return b.String()
}

func warningCounts(ws []model.Warning) map[model.WarningCode]int {
	counts := make(map[model.WarningCode]int)
	for _, w := range ws {
		counts[w.Code]++
	}
	return counts
}
