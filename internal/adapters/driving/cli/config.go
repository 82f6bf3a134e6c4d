package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Shows the resolved settings, with defaults applied, and whether they can
drive a run. Use 'config set' to change a single value in the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Validates value for key and writes it to the config file.

Durations use Go syntax (500ms, 20s). Source lists such as [[sources]] are
edited in the file directly. Run 'radar config keys' for the accepted keys.`,
	Example: `  radar config set gate.mode ai_gatekept
  radar config set history.capacity 800
  radar config set backfill.fallback_date 2024-01-01`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List keys accepted by 'config set'",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	cmd.Printf("Config file: %s\n\n", settingsService.ConfigPath())

	cmd.Println("[Gate]")
	cmd.Printf("  Mode: %s\n", settings.Gate.Mode.Description())
	cmd.Printf("  On failure: %s\n", settings.Gate.FailurePolicy)
	cmd.Printf("  Topic: %s\n", settings.Gate.Topic)
	cmd.Printf("  Delay: %s, timeout: %s\n", settings.Gate.Delay, settings.Gate.Timeout)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
	} else {
		cmd.Println("  API Key: (not set)")
	}
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Path: %s\n", settings.History.Path)
	cmd.Printf("  Capacity: %d\n", settings.History.Capacity)
	cmd.Println()

	cmd.Println("[Digest]")
	cmd.Printf("  Path: %s\n", settings.Digest.Path)
	cmd.Printf("  Fallback window: %d items\n", settings.Digest.FallbackWindow)
	cmd.Println()

	cmd.Println("[Sources]")
	cmd.Printf("  Run: %d, backfill: %d\n", len(settings.Sources.Sources), len(settings.Backfill.Sources))
	cmd.Printf("  Timeout: %s, courtesy delay: %s\n", settings.Sources.Timeout, settings.Sources.CourtesyDelay)
	cmd.Printf("  Backfill fallback date: %s\n", settings.Backfill.FallbackDate)
	cmd.Println()

	cmd.Println("[Schedule]")
	cmd.Printf("  Cron: %s\n", settings.Schedule.Cron)
	if settings.RunLog.Enabled {
		cmd.Printf("  Run ledger: %s (keep %d)\n", settings.RunLog.Path, settings.RunLog.Keep)
	} else {
		cmd.Println("  Run ledger: disabled")
	}
	cmd.Println()

	if err := settings.ValidateBackfill(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'radar config set' to fix it.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	cmd.Printf("Set %s = %s in %s\n", key, value, settingsService.ConfigPath())
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.SettableKeys() {
		cmd.Println(key)
	}
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
