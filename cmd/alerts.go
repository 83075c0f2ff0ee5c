package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"centavo/internal/cli"
	"centavo/internal/model"

	"github.com/spf13/cobra"
)

var flagAlertsDismissAll bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Generate and review spending alerts",
}

var alertsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh batch of alerts from the current month state",
	RunE:  runAlertsGenerate,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active alerts",
	RunE:  runAlertsList,
}

var alertsDismissCmd = &cobra.Command{
	Use:   "dismiss [id]",
	Short: "Dismiss one alert by id, or all with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAlertsDismiss,
}

func init() {
	alertsDismissCmd.Flags().BoolVar(&flagAlertsDismissAll, "all", false, "Dismiss every active alert")

	alertsCmd.AddCommand(alertsGenerateCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsDismissCmd)
	rootCmd.AddCommand(alertsCmd)
}

func runAlertsGenerate(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	alerts, err := svc.engine.GenerateAlerts(context.Background(), svc.userID, time.Now())
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		fmt.Println("  Nothing noteworthy this month.")
		return nil
	}

	fmt.Printf("  Generated %d alert(s):\n\n", len(alerts))
	printAlerts(svc, alerts)
	return nil
}

func runAlertsList(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	alerts, err := svc.store.ActiveAlerts(context.Background(), svc.userID)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Println("  No active alerts.")
		return nil
	}

	printAlerts(svc, alerts)
	return nil
}

func printAlerts(svc *services, alerts []model.Alert) {
	currency := svc.cfg.General.Currency
	for _, a := range alerts {
		fmt.Printf("  %s %s", cli.SeverityBadge(a.Severity), a.Title)
		if a.LowConfidence {
			fmt.Print("  (unverified category)")
		}
		fmt.Println()
		fmt.Printf("       %s\n", a.Message)
		if a.AmountInvolved > 0 {
			fmt.Printf("       Amount: %s\n", cli.FormatMoney(a.AmountInvolved, currency))
		}
		if a.RecommendedAction != "" {
			fmt.Printf("       → %s\n", a.RecommendedAction)
		}
		fmt.Printf("       id: %s\n\n", a.ID)
	}
}

func runAlertsDismiss(_ *cobra.Command, args []string) error {
	if !flagAlertsDismissAll && len(args) == 0 {
		return errors.New("provide an alert id or --all")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()

	if flagAlertsDismissAll {
		n, err := svc.store.DismissAllAlerts(ctx, svc.userID)
		if err != nil {
			return err
		}
		fmt.Printf("  Dismissed %d alert(s)\n", n)
		return nil
	}

	if err := svc.store.DismissAlert(ctx, svc.userID, args[0]); err != nil {
		return err
	}
	fmt.Println("  Dismissed.")
	return nil
}
