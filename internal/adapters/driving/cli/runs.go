package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/radar/internal/core/domain"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent runs from the run ledger",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "output runs as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}

	runs, err := pipeline.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if runsJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputRuns(cmd, runs)
}

func outputRuns(cmd *cobra.Command, runs []domain.RunReport) error {
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		status := "ok"
		if !r.Success() {
			status = "FAILED"
		}
		cmd.Printf("  %s  %-6s  admitted %d/%d  history %d",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), status, r.Admitted, r.Novel, r.HistorySize)
		if len(r.FailedSources) > 0 {
			cmd.Printf("  (%d sources failed)", len(r.FailedSources))
		}
		cmd.Println()
		if r.Error != "" {
			cmd.Printf("      %s\n", r.Error)
		}
	}
	return nil
}
