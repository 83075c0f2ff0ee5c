package cmd

import (
	"context"
	"fmt"
	"time"

	"centavo/internal/cli"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Track consecutive no-spend days",
}

var streakCheckinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Run today's check-in against recorded spending",
	RunE:  runStreakCheckin,
}

var streakStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current streak",
	RunE:  runStreakStatus,
}

func init() {
	streakCmd.AddCommand(streakCheckinCmd)
	streakCmd.AddCommand(streakStatusCmd)
	rootCmd.AddCommand(streakCmd)
}

func runStreakCheckin(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	state, err := svc.engine.CheckIn(context.Background(), svc.userID, time.Now())
	if err != nil {
		return err
	}

	if state.CurrentStreak == 0 {
		fmt.Println("  Spending recorded today — streak reset.")
	} else {
		fmt.Printf("  No spending today. Streak: %s\n", cli.FormatStreak(state.CurrentStreak))
	}
	if state.BestStreak > state.CurrentStreak {
		fmt.Printf("  Best: %s\n", cli.FormatStreak(state.BestStreak))
	}
	return nil
}

func runStreakStatus(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	state, err := svc.store.StreakFor(context.Background(), svc.userID)
	if err != nil {
		return err
	}
	if state == nil {
		fmt.Println("  No check-ins yet. Run `centavo streak checkin`.")
		return nil
	}

	t := cli.Table{
		Title: "No-spend streak",
		Rows: [][]string{
			{"Current", cli.FormatStreak(state.CurrentStreak)},
			{"Best", cli.FormatStreak(state.BestStreak)},
			{"Total no-spend days", fmt.Sprintf("%d", state.TotalNoSpendDays)},
			{"Times broken", fmt.Sprintf("%d", state.StreakBrokenCount)},
			{"Last no-spend day", cli.FormatDay(state.LastNoSpendDate)},
		},
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
