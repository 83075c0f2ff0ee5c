// Package cmd implements the centavo CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"centavo/internal/cli"
	"centavo/internal/config"
	"centavo/internal/engine"
	"centavo/internal/genai"
	"centavo/internal/model"
	"centavo/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagUser    string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "centavo",
	Short: "Personal budget projection and insight CLI",
	Long:  "Track expenses, project month-end balances, and get spending alerts.",
	RunE:  runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id (defaults to config)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory override")
}

// services bundles the wired collaborators every command needs.
type services struct {
	cfg    config.Config
	store  *store.Store
	engine *engine.Service
	userID string
}

func (s *services) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// openServices loads config and opens the store and engine. The genai
// client is nil when no API key is configured; alerts then use the
// deterministic generator.
func openServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}

	st, err := store.Open(config.DBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	gen := genai.NewClient(config.GetAPIKey(cfg), genai.Options{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	userID := flagUser
	if userID == "" {
		userID = cfg.General.UserID
	}

	var completer engine.Completer
	if gen != nil {
		completer = gen
	}

	return &services{
		cfg:    cfg,
		store:  st,
		engine: engine.NewService(st, completer),
		userID: userID,
	}, nil
}

func runDashboard(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	now := time.Now()
	currency := svc.cfg.General.Currency

	snap, err := svc.engine.Snapshot(ctx, svc.userID, now)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderTitle(fmt.Sprintf("centavo · %s", snap.Month.Format("January 2006"))))
	fmt.Println()

	proj := snap.Projection
	summary := cli.Table{
		Rows: [][]string{
			{"Budget", cli.FormatMoney(snap.TotalBudget, currency)},
			{"Spent", fmt.Sprintf("%s (%s)", cli.FormatMoney(snap.TotalSpent, currency), cli.FormatPercent(snap.OverallPctUsed))},
			{"Remaining", cli.FormatMoney(proj.BudgetRemaining, currency)},
			{"---"},
			{"Daily rate", cli.FormatMoney(proj.DailySpendRate, currency)},
			{"Projected month end", cli.FormatMoney(proj.ProjectedMonthEndBalance, currency)},
			{"Risk", cli.RiskStyle(proj.RiskLevel).Render(strings.ToUpper(string(proj.RiskLevel)))},
			{"Days until danger", cli.FormatDaysLeft(proj.DaysUntilDanger)},
			{"vs last month", cli.FormatTrend(snap.MonthOverMonthPct)},
		},
	}
	fmt.Print(cli.RenderTable(summary))

	fmt.Printf("\n  %s\n", cli.RenderBudgetBar(snap.TotalSpent, snap.TotalBudget, 32))

	sparkStart := model.DayOf(now).AddDate(0, 0, -13)
	records := engine.AggregateSpend(ctx, svc.store, svc.userID, sparkStart, now, "")
	daily := make([]float64, 14)
	for _, r := range records {
		idx := int(model.DayOf(r.OccurredOn).Sub(sparkStart).Hours() / 24)
		if idx >= 0 && idx < len(daily) {
			daily[idx] += r.Amount
		}
	}
	fmt.Printf("  Last 14 days: %s\n", cli.RenderSparkline(daily))

	if len(snap.Views) > 0 {
		fmt.Println()
		cat := cli.Table{
			Title:   "Categories",
			Headers: []string{"Category", "Spent", "Allocated", "Used", "Overspend"},
		}
		for _, v := range snap.Views {
			over := ""
			if v.ProjectedOverspend > 0 {
				over = cli.FormatMoney(v.ProjectedOverspend, currency)
			}
			cat.Rows = append(cat.Rows, []string{
				v.Name,
				cli.FormatMoney(v.AmountSpent, currency),
				cli.FormatMoney(v.BudgetAllocated, currency),
				cli.FormatPercent(v.PercentageUsed),
				over,
			})
		}
		fmt.Print(cli.RenderTable(cat))
	}

	if alerts, err := svc.store.ActiveAlerts(ctx, svc.userID); err == nil && len(alerts) > 0 {
		fmt.Printf("\n  %d active alert(s). Run `centavo alerts list` to review.\n", len(alerts))
	}

	return nil
}
