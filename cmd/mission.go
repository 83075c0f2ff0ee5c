package cmd

import (
	"context"
	"fmt"
	"time"

	"centavo/internal/cli"

	"github.com/spf13/cobra"
)

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Weekly spend-less challenges",
}

var missionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate this week's mission (no-op if one already exists)",
	RunE:  runMissionNew,
}

var missionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show this week's mission progress",
	RunE:  runMissionStatus,
}

func init() {
	missionCmd.AddCommand(missionNewCmd)
	missionCmd.AddCommand(missionStatusCmd)
	rootCmd.AddCommand(missionCmd)
}

func runMissionNew(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	m, err := svc.engine.GenerateMission(context.Background(), svc.userID, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("  This week: spend less than %s on %s\n",
		cli.FormatMoney(m.Baseline.BaselineAmount, svc.cfg.General.Currency),
		m.Baseline.CategoryName)
	fmt.Printf("  Baseline from %s · week %s - %s\n",
		m.Baseline.BaselineSource,
		m.WeekStart.Format("Jan 2"), m.WeekEnd.Format("Jan 2"))
	return nil
}

func runMissionStatus(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	m, err := svc.engine.MissionStatus(context.Background(), svc.userID, time.Now())
	if err != nil {
		return err
	}
	if m == nil {
		fmt.Println("  No mission this week. Run `centavo mission new`.")
		return nil
	}

	currency := svc.cfg.General.Currency
	status := "on track"
	if m.CurrentSpend >= m.Baseline.BaselineAmount {
		status = "over baseline"
	}

	t := cli.Table{
		Title: "Weekly mission",
		Rows: [][]string{
			{"Category", m.Baseline.CategoryName},
			{"Baseline", cli.FormatMoney(m.Baseline.BaselineAmount, currency)},
			{"Current spend", cli.FormatMoney(m.CurrentSpend, currency)},
			{"Status", status},
			{"Week", fmt.Sprintf("%s - %s", m.WeekStart.Format("Jan 2"), m.WeekEnd.Format("Jan 2"))},
			{"Baseline source", string(m.Baseline.BaselineSource)},
		},
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
