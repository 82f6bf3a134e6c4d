package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
)

var (
	historyLimit  int
	historySource string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored items, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of items (0 for all)")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only items with this source tag")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output items as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	items, err := historyService.List(cmd.Context(), driving.HistoryQuery{
		Limit:  historyLimit,
		Source: historySource,
	})
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputHistory(cmd, items)
}

func outputHistory(cmd *cobra.Command, items []domain.StoredItem) error {
	if len(items) == 0 {
		cmd.Println("No items stored.")
		return nil
	}

	for i := range items {
		cmd.Printf("  %s  [%s] %s\n", items[i].Date, items[i].Source, items[i].Title)
		if items[i].Link != "" {
			cmd.Printf("              %s\n", items[i].Link)
		}
		if items[i].Summary != "" {
			cmd.Printf("              %s\n", items[i].Summary)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d items\n", len(items))
	return nil
}
