package cmd

import (
	"context"
	"errors"
	"fmt"

	"centavo/internal/cli"
	"centavo/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagCategoryFixed   float64
	flagCategoryPercent float64
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage spending categories",
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category with a fixed or percentage allocation",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesAdd,
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE:  runCategoriesList,
}

func init() {
	categoriesAddCmd.Flags().Float64Var(&flagCategoryFixed, "fixed", 0, "Fixed monthly allocation")
	categoriesAddCmd.Flags().Float64Var(&flagCategoryPercent, "percent", 0, "Allocation as percent of total budget")

	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runCategoriesAdd(_ *cobra.Command, args []string) error {
	if flagCategoryFixed > 0 && flagCategoryPercent > 0 {
		return errors.New("use either --fixed or --percent, not both")
	}
	if flagCategoryFixed <= 0 && flagCategoryPercent <= 0 {
		return errors.New("one of --fixed or --percent is required")
	}
	if flagCategoryPercent > 100 {
		return errors.New("--percent must be between 0 and 100")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	c := model.Category{
		UserID: svc.userID,
		Name:   args[0],
	}
	if flagCategoryFixed > 0 {
		c.Type = model.CategoryFixed
		c.FixedAmount = flagCategoryFixed
	} else {
		c.Type = model.CategoryPercentage
		c.Percentage = flagCategoryPercent
	}

	if err := svc.store.CreateCategory(context.Background(), &c); err != nil {
		return fmt.Errorf("saving category: %w", err)
	}

	fmt.Printf("  Added category %q\n", c.Name)
	return nil
}

func runCategoriesList(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	categories, err := svc.store.CategoriesFor(context.Background(), svc.userID)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Println("  No categories yet. Add one with `centavo categories add`.")
		return nil
	}

	currency := svc.cfg.General.Currency
	t := cli.Table{
		Title:   "Categories",
		Headers: []string{"Name", "Type", "Allocation"},
	}
	for _, c := range categories {
		alloc := cli.FormatPercent(c.Percentage) + " of budget"
		if c.Type == model.CategoryFixed {
			alloc = cli.FormatMoney(c.FixedAmount, currency)
		}
		t.Rows = append(t.Rows, []string{c.Name, string(c.Type), alloc})
	}
	fmt.Print(cli.RenderTable(t))
	return nil
}
