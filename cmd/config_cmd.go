package cmd

import (
	"fmt"

	"centavo/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Profile:  %s\n", cfg.General.UserID)
	fmt.Printf("    Currency: %s\n", cfg.General.Currency)
	fmt.Printf("    Database: %s\n", config.DBPath(cfg))
	fmt.Println()

	fmt.Println("  [LLM]")
	apiKey := config.GetAPIKey(cfg)
	if apiKey != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(apiKey))
	} else {
		fmt.Println("    API key: not configured (rule-based alerts only)")
	}
	if cfg.LLM.Model != "" {
		fmt.Printf("    Model:   %s\n", cfg.LLM.Model)
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Port:          %d\n", cfg.Daemon.Port)
	fmt.Printf("    Poll interval: %ds\n", cfg.Daemon.PollInterval)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `centavo setup` to reconfigure.")
	return nil
}
