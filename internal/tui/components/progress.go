package components

import (
	"fmt"

	"centavo/internal/model"
	"centavo/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/yellow/orange/red based on budget utilization.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1:
		return string(t.Red)
	case pct >= 0.8:
		return string(t.Orange)
	case pct >= 0.5:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// ColorForRisk returns the theme color for a projection risk level.
func ColorForRisk(level model.RiskLevel) lipgloss.Color {
	t := theme.Active
	switch level {
	case model.RiskHigh:
		return t.Red
	case model.RiskMedium:
		return t.Orange
	default:
		return t.Green
	}
}

// BudgetBar renders a labeled spend-vs-allocation bar with percentage.
func BudgetBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	clamped := pct
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " +
		bar.ViewAs(clamped) +
		" " +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct*100))
}
