package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"centavo/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	userID := cfg.General.UserID
	currency := cfg.General.Currency
	apiKey := cfg.LLM.APIKey
	theme := cfg.Appearance.Theme
	budget := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profile name").
				Description("Expenses and budgets are scoped to this name.").
				Value(&userID).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("profile name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Currency").
				Options(
					huh.NewOption("Euro (€)", "EUR"),
					huh.NewOption("US Dollar ($)", "USD"),
					huh.NewOption("British Pound (£)", "GBP"),
					huh.NewOption("Mexican Peso ($)", "MXN"),
				).
				Value(&currency),
			huh.NewInput().
				Title("Monthly budget").
				Description("Total for the current month. Leave empty to set later.").
				Value(&budget).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if v, err := strconv.ParseFloat(s, 64); err != nil || v <= 0 {
						return errors.New("enter a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Anthropic API key").
				Description("Powers natural-language alerts. Leave empty for rule-based alerts only.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Flexoki Dark", "flexoki-dark"),
					huh.NewOption("Catppuccin Mocha", "catppuccin-mocha"),
					huh.NewOption("Tokyo Night", "tokyo-night"),
					huh.NewOption("Terminal (ANSI 16)", "terminal"),
				).
				Value(&theme),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.General.UserID = userID
	cfg.General.Currency = currency
	cfg.LLM.APIKey = apiKey
	cfg.Appearance.Theme = theme

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if budget != "" {
		amount, _ := strconv.ParseFloat(budget, 64)
		flagBudgetMonth = ""
		if err := runBudgetSet(nil, []string{strconv.FormatFloat(amount, 'f', -1, 64)}); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `centavo setup` anytime to reconfigure.")
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
