// Package tui provides the interactive Bubble Tea dashboard for centavo.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"centavo/internal/cli"
	"centavo/internal/engine"
	"centavo/internal/model"
	"centavo/internal/store"
	"centavo/internal/tui/components"
	"centavo/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dashboardData is everything the dashboard renders, loaded in one pass.
type dashboardData struct {
	Snapshot *engine.MonthSnapshot
	Alerts   []model.Alert
	Streak   *model.StreakState
	Mission  *model.WeeklyMission
}

// dataLoadedMsg is sent when the data load finishes.
type dataLoadedMsg struct {
	data dashboardData
	err  error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	eng      *engine.Service
	db       *store.Store
	userID   string
	currency string

	data    dashboardData
	loaded  bool
	loadErr error

	width     int
	height    int
	activeTab int
	showHelp  bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 130
	refreshInterval  = 30 * time.Second
)

// NewApp creates a new TUI app model.
func NewApp(eng *engine.Service, db *store.Store, userID, currency string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		eng:      eng,
		db:       db,
		userID:   userID,
		currency: currency,
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(), a.spinner.Tick, tickCmd())
}

func (a App) loadCmd() tea.Cmd {
	eng, db, userID := a.eng, a.db, a.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		now := time.Now()
		var d dashboardData

		snap, err := eng.Snapshot(ctx, userID, now)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		d.Snapshot = snap

		// Secondary panels degrade independently.
		if alerts, err := db.ActiveAlerts(ctx, userID); err == nil {
			d.Alerts = alerts
		}
		if streak, err := db.StreakFor(ctx, userID); err == nil {
			d.Streak = streak
		}
		if mission, err := eng.MissionStatus(ctx, userID, now); err == nil {
			d.Mission = mission
		}

		return dataLoadedMsg{data: d}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case dataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.err
		if msg.err == nil {
			a.data = msg.data
		}
		return a, nil

	case tickMsg:
		return a, tea.Batch(a.loadCmd(), tickCmd())

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "?":
		a.showHelp = !a.showHelp
		return a, nil
	case "r":
		a.loaded = false
		return a, tea.Batch(a.loadCmd(), a.spinner.Tick)
	case "tab", "right", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "t":
		a.cycleTheme()
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	return a, nil
}

func (a *App) cycleTheme() {
	for i, t := range theme.All {
		if t.Name == theme.Active.Name {
			theme.Active = theme.All[(i+1)%len(theme.All)]
			return
		}
	}
	theme.Active = theme.All[0]
}

// View implements tea.Model.
func (a App) View() string {
	t := theme.Active

	if a.width > 0 && a.width < minTerminalWidth {
		return lipgloss.NewStyle().Foreground(t.Orange).
			Render(fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d).\n", a.width, minTerminalWidth))
	}

	if !a.loaded {
		return fmt.Sprintf("\n  %s loading budget data...\n", a.spinner.View())
	}
	if a.loadErr != nil {
		return lipgloss.NewStyle().Foreground(t.Red).
			Render(fmt.Sprintf("\n  error: %v\n\n  press q to quit, r to retry\n", a.loadErr))
	}

	width := a.width
	if width > maxContentWidth {
		width = maxContentWidth
	}
	if width == 0 {
		width = 100
	}

	var b strings.Builder
	b.WriteString(components.RenderTabBar(a.activeTab))
	b.WriteString("\n\n")

	switch a.activeTab {
	case 0:
		b.WriteString(a.renderOverview(width))
	case 1:
		b.WriteString(a.renderCategories(width))
	case 2:
		b.WriteString(a.renderAlerts(width))
	case 3:
		b.WriteString(a.renderStreak(width))
	case 4:
		b.WriteString(a.renderMission(width))
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	if a.showHelp {
		b.WriteString("\n")
		b.WriteString(a.renderHelp())
	}

	return b.String()
}

func (a App) renderOverview(width int) string {
	snap := a.data.Snapshot
	proj := snap.Projection

	riskStyle := lipgloss.NewStyle().Foreground(components.ColorForRisk(proj.RiskLevel)).Bold(true)

	cards := []struct{ Label, Value, Detail string }{
		{"Budget", cli.FormatMoney(snap.TotalBudget, a.currency), snap.Month.Format("January 2006")},
		{"Spent", cli.FormatMoney(snap.TotalSpent, a.currency), cli.FormatPercent(snap.OverallPctUsed) + " used"},
		{"Remaining", cli.FormatMoney(proj.BudgetRemaining, a.currency),
			fmt.Sprintf("day %d of %d", snap.DaysElapsed, snap.DaysInMonth)},
		{"Daily rate", cli.FormatMoney(proj.DailySpendRate, a.currency), cli.FormatTrend(snap.MonthOverMonthPct) + " vs last month"},
	}

	var body strings.Builder
	inner := components.CardInnerWidth(width)

	body.WriteString(fmt.Sprintf("Projected month-end balance: %s\n",
		cli.FormatMoney(proj.ProjectedMonthEndBalance, a.currency)))
	body.WriteString(fmt.Sprintf("Risk level: %s    Days until danger: %s\n\n",
		riskStyle.Render(strings.ToUpper(string(proj.RiskLevel))),
		cli.FormatDaysLeft(proj.DaysUntilDanger)))

	barWidth := inner - 18
	if barWidth < 10 {
		barWidth = 10
	}
	frac := 0.0
	if snap.TotalBudget > 0 {
		frac = snap.TotalSpent / snap.TotalBudget
	}
	body.WriteString(components.BudgetBar("month", frac, 8, barWidth))

	return components.MetricCardRow(cards, width) + "\n" +
		components.ContentCard("Projection", body.String(), width)
}

func (a App) renderCategories(width int) string {
	views := a.data.Snapshot.Views
	if len(views) == 0 {
		return components.ContentCard("Categories",
			"No categories configured. Run: centavo categories add", width)
	}

	inner := components.CardInnerWidth(width)
	labelW := 12
	barWidth := inner - labelW - 10
	if barWidth < 10 {
		barWidth = 10
	}

	var body strings.Builder
	for i, v := range views {
		if i > 0 {
			body.WriteString("\n")
		}
		frac := 0.0
		if v.BudgetAllocated > 0 {
			frac = v.AmountSpent / v.BudgetAllocated
		}
		body.WriteString(components.BudgetBar(truncate(v.Name, labelW), frac, labelW, barWidth))
		body.WriteString(fmt.Sprintf("\n%*s%s of %s, projected overspend %s\n",
			labelW+1, "",
			cli.FormatMoney(v.AmountSpent, a.currency),
			cli.FormatMoney(v.BudgetAllocated, a.currency),
			cli.FormatMoney(v.ProjectedOverspend, a.currency)))
	}

	return components.ContentCard("Category budgets", body.String(), width)
}

func (a App) renderAlerts(width int) string {
	alerts := a.data.Alerts
	if len(alerts) == 0 {
		return components.ContentCard("Alerts", "No active alerts.", width)
	}

	t := theme.Active
	msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	actionStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var body strings.Builder
	for i, al := range alerts {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(fmt.Sprintf("%s %s", cli.SeverityBadge(al.Severity), al.Title))
		if al.LowConfidence {
			body.WriteString(actionStyle.Render("  (unverified category)"))
		}
		body.WriteString("\n")
		body.WriteString(msgStyle.Render("  " + al.Message))
		if al.RecommendedAction != "" {
			body.WriteString("\n")
			body.WriteString(actionStyle.Render("  → " + al.RecommendedAction))
		}
		body.WriteString("\n")
	}

	return components.ContentCard(fmt.Sprintf("Alerts (%d)", len(alerts)), body.String(), width)
}

func (a App) renderStreak(width int) string {
	s := a.data.Streak
	if s == nil {
		return components.ContentCard("No-spend streak",
			"No check-ins yet. Run: centavo streak checkin", width)
	}

	cards := []struct{ Label, Value, Detail string }{
		{"Current streak", cli.FormatStreak(s.CurrentStreak), "last no-spend " + cli.FormatDay(s.LastNoSpendDate)},
		{"Best streak", cli.FormatStreak(s.BestStreak), ""},
		{"No-spend days", fmt.Sprintf("%d", s.TotalNoSpendDays), fmt.Sprintf("broken %d times", s.StreakBrokenCount)},
	}
	return components.MetricCardRow(cards, width)
}

func (a App) renderMission(width int) string {
	m := a.data.Mission
	if m == nil {
		return components.ContentCard("Weekly mission",
			"No mission this week. Run: centavo mission new", width)
	}

	t := theme.Active
	var status string
	if m.CurrentSpend < m.Baseline.BaselineAmount {
		status = lipgloss.NewStyle().Foreground(t.Green).Render("on track")
	} else {
		status = lipgloss.NewStyle().Foreground(t.Red).Render("over baseline")
	}

	body := fmt.Sprintf("Spend less than %s on %s this week.\n\n",
		cli.FormatMoney(m.Baseline.BaselineAmount, a.currency), m.Baseline.CategoryName)
	body += fmt.Sprintf("Current spend: %s  (%s)\n",
		cli.FormatMoney(m.CurrentSpend, a.currency), status)
	body += fmt.Sprintf("Week: %s - %s    Baseline source: %s",
		m.WeekStart.Format("Jan 2"), m.WeekEnd.Format("Jan 2"), m.Baseline.BaselineSource)

	return components.ContentCard("Weekly mission", body, width)
}

func (a App) renderStatusBar() string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextDim)
	return style.Render(" q quit · r refresh · tab switch · t theme · ? help")
}

func (a App) renderHelp() string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	for _, tab := range components.Tabs {
		b.WriteString(fmt.Sprintf("  %c  %s\n", tab.Key, tab.Name))
	}
	b.WriteString("  r  reload data\n  t  cycle theme\n  q  quit")
	return style.Render(b.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

// Run starts the dashboard and blocks until exit.
func Run(eng *engine.Service, db *store.Store, userID, currency, themeName string) error {
	theme.SetActive(themeName)
	p := tea.NewProgram(NewApp(eng, db, userID, currency), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
