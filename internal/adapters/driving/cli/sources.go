package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/radar/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	Long: `Lists the sources a run will fetch, in order. When no [[sources]] are
configured, the built-in defaults are shown.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if len(settings.Sources.Sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	for i, src := range settings.Sources.Sources {
		cmd.Printf("  [%d] %s\n", i+1, src.Tag)
		cmd.Printf("      Kind:     %s\n", src.Kind)
		cmd.Printf("      Language: %s\n", src.EffectiveLanguage())
		if src.Category != "" {
			cmd.Printf("      Category: %s\n", src.Category)
		}
		if src.Query != "" {
			cmd.Printf("      Query:    %s\n", src.Query)
		}
		if src.URL != "" {
			cmd.Printf("      URL:      %s\n", src.URL)
		}
		cmd.Printf("      Limit:    %s\n", limitLabel(src.Limit))
		if src.Kind == domain.SourceKindCatalog {
			days := src.FreshnessDays
			if days == 0 {
				days = settings.Sources.FreshnessDays
			}
			cmd.Printf("      Fresh:    %d days\n", days)
		}
	}

	cmd.Println()
	cmd.Printf("Gate: %s (%s), on failure: %s\n",
		settings.Gate.Mode, settings.Gate.Mode.Description(), settings.Gate.FailurePolicy)
	if settings.LLM.IsConfigured() {
		cmd.Printf("Model: %s %s\n", settings.LLM.Provider, settings.LLM.Model)
	} else {
		cmd.Println("Model: not configured (items are stored with the unconfigured marker)")
	}
	return nil
}

func limitLabel(limit int) string {
	if limit <= 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", limit)
}
