package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"centavo/internal/cli"
	"centavo/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagExpenseCategory string
	flagExpenseNote     string
	flagExpenseDate     string
	flagExpenseFrom     string
	flagExpenseTo       string
)

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Record and list expenses",
}

var expensesAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Record a manual expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesAdd,
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses in a date range",
	RunE:  runExpensesList,
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import bank transactions from a CSV export (date,amount,type,description)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBankImport,
}

func init() {
	expensesAddCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "Category name")
	expensesAddCmd.Flags().StringVar(&flagExpenseNote, "note", "", "Free-form note")
	expensesAddCmd.Flags().StringVar(&flagExpenseDate, "date", "", "Expense date (YYYY-MM-DD, default today)")

	expensesListCmd.Flags().StringVar(&flagExpenseFrom, "from", "", "Range start (YYYY-MM-DD, default month start)")
	expensesListCmd.Flags().StringVar(&flagExpenseTo, "to", "", "Range end (YYYY-MM-DD, default today)")

	expensesCmd.AddCommand(expensesAddCmd)
	expensesCmd.AddCommand(expensesListCmd)
	expensesCmd.AddCommand(bankImportCmd)
	rootCmd.AddCommand(expensesCmd)
}

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func runExpensesAdd(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	amount = math.Abs(amount)
	if amount == 0 {
		return errors.New("amount must be non-zero")
	}

	occurredOn := time.Now()
	if flagExpenseDate != "" {
		if occurredOn, err = parseDay(flagExpenseDate); err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", flagExpenseDate)
		}
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()

	categoryID := ""
	if flagExpenseCategory != "" {
		categoryID, err = resolveCategoryID(ctx, svc, flagExpenseCategory)
		if err != nil {
			return err
		}
	}

	rec := model.SpendRecord{
		UserID:     svc.userID,
		OccurredOn: occurredOn,
		Amount:     amount,
		CategoryID: categoryID,
		Note:       flagExpenseNote,
	}
	if err := svc.store.CreateExpense(ctx, &rec); err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}

	fmt.Printf("  Recorded %s on %s\n",
		cli.FormatMoney(amount, svc.cfg.General.Currency),
		occurredOn.Format("2006-01-02"))
	return nil
}

func resolveCategoryID(ctx context.Context, svc *services, name string) (string, error) {
	categories, err := svc.store.CategoriesFor(ctx, svc.userID)
	if err != nil {
		return "", fmt.Errorf("loading categories: %w", err)
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q, run `centavo categories list`", name)
}

func runExpensesList(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if flagExpenseFrom != "" {
		if from, err = parseDay(flagExpenseFrom); err != nil {
			return fmt.Errorf("invalid --from date %q", flagExpenseFrom)
		}
	}
	if flagExpenseTo != "" {
		if to, err = parseDay(flagExpenseTo); err != nil {
			return fmt.Errorf("invalid --to date %q", flagExpenseTo)
		}
	}

	ctx := context.Background()
	currency := svc.cfg.General.Currency

	manual, err := svc.store.ManualExpenses(ctx, svc.userID, from, to)
	if err != nil {
		return err
	}
	bank, err := svc.store.BankExpenses(ctx, svc.userID, from, to)
	if err != nil {
		return err
	}

	categories, _ := svc.store.CategoriesFor(ctx, svc.userID)
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	t := cli.Table{
		Title:   fmt.Sprintf("Expenses %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		Headers: []string{"Date", "Amount", "Category", "Source", "Note"},
	}
	var total float64
	for _, r := range append(manual, bank...) {
		total += r.Amount
		t.Rows = append(t.Rows, []string{
			r.OccurredOn.Format("2006-01-02"),
			cli.FormatMoney(r.Amount, currency),
			names[r.CategoryID],
			string(r.Source),
			r.Note,
		})
	}
	t.Rows = append(t.Rows, []string{"---"})
	t.Rows = append(t.Rows, []string{"Total", cli.FormatMoney(total, currency), "", "", ""})

	fmt.Print(cli.RenderTable(t))
	return nil
}

func runBankImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var imported, skipped int
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading csv line %d: %w", line, err)
		}
		if len(row) < 3 {
			skipped++
			continue
		}
		// Header row
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}

		day, err := parseDay(strings.TrimSpace(row[0]))
		if err != nil {
			skipped++
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			skipped++
			continue
		}

		txType := strings.ToLower(strings.TrimSpace(row[2]))
		if txType == "" {
			txType = "expense"
		}
		description := ""
		if len(row) > 3 {
			description = strings.TrimSpace(row[3])
		}

		rec := model.SpendRecord{
			UserID:     svc.userID,
			OccurredOn: day,
			Amount:     math.Abs(amount),
			Note:       description,
		}
		if err := svc.store.CreateBankTransaction(ctx, &rec, txType); err != nil {
			return fmt.Errorf("saving transaction from line %d: %w", line, err)
		}
		imported++
	}

	fmt.Printf("  Imported %d transaction(s)", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d malformed row(s)", skipped)
	}
	fmt.Println()
	return nil
}
