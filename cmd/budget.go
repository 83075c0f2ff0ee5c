package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"centavo/internal/cli"

	"github.com/spf13/cobra"
)

var flagBudgetMonth string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Set or show the monthly budget",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the total budget for a month",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the budget for a month",
	RunE:  runBudgetShow,
}

func init() {
	budgetCmd.PersistentFlags().StringVar(&flagBudgetMonth, "month", "", "Month (YYYY-MM, default current)")

	budgetCmd.AddCommand(budgetSetCmd)
	budgetCmd.AddCommand(budgetShowCmd)
	rootCmd.AddCommand(budgetCmd)
}

func budgetMonth() (time.Time, error) {
	if flagBudgetMonth == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01", flagBudgetMonth, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", flagBudgetMonth)
	}
	return t, nil
}

func runBudgetSet(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		return errors.New("amount must be a positive number")
	}

	month, err := budgetMonth()
	if err != nil {
		return err
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.store.SetBudget(context.Background(), svc.userID, month, amount); err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}

	fmt.Printf("  Budget for %s set to %s\n",
		month.Format("January 2006"),
		cli.FormatMoney(amount, svc.cfg.General.Currency))
	return nil
}

func runBudgetShow(_ *cobra.Command, _ []string) error {
	month, err := budgetMonth()
	if err != nil {
		return err
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	b, err := svc.store.BudgetFor(context.Background(), svc.userID, month)
	if err != nil {
		return err
	}
	if b == nil {
		fmt.Printf("  No budget set for %s. Set one with `centavo budget set`.\n",
			month.Format("January 2006"))
		return nil
	}

	fmt.Printf("  Budget for %s: %s\n",
		month.Format("January 2006"),
		cli.FormatMoney(b.TotalAmount, svc.cfg.General.Currency))
	return nil
}
