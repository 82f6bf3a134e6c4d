package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Seed the history from archive queries",
	Long: `Fetches the [[backfill.sources]] queries once, judges and summarises every
item not yet stored, and merges them into the history ordered by date.
Items without a usable timestamp get backfill.fallback_date. No digest is
written.

With --dry-run the pass reads the real history but writes nothing.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "backfill without writing history or ledger")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runDryRun {
		cmd.Println("Dry run: nothing will be written.")
	}

	report, err := pipeline.Backfill(ctx)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}
