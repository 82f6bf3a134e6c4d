package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/radar/internal/core/domain"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one collection pass",
	Long: `Fetches every configured source, drops items already stored, judges and
summarises the rest, persists the bounded history and writes the digest.

With --dry-run the pass reads the real history but writes nothing.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "run without writing history, digest or ledger")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runDryRun {
		cmd.Println("Dry run: nothing will be written.")
	}

	report, err := pipeline.Run(ctx)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// printReport writes a run summary.
func printReport(cmd *cobra.Command, r *domain.RunReport) {
	cmd.Printf("Run %s\n\n", r.ID)
	cmd.Printf("  Fetched:   %d\n", r.Fetched)
	cmd.Printf("  Novel:     %d\n", r.Novel)
	cmd.Printf("  Admitted:  %d", r.Admitted)
	if r.Degraded > 0 {
		cmd.Printf(" (%d with placeholder summary)", r.Degraded)
	}
	cmd.Println()
	cmd.Printf("  Rejected:  %d\n", r.Rejected)
	cmd.Printf("  Skipped:   %d\n", r.Skipped)
	cmd.Printf("  History:   %d items (%d evicted)\n", r.HistorySize, r.Evicted)
	if len(r.FailedSources) > 0 {
		cmd.Printf("  Failed:    %s\n", strings.Join(r.FailedSources, ", "))
	}
	switch {
	case r.DigestWritten:
		cmd.Println("  Digest:    written")
	case r.DigestError != "":
		cmd.Printf("  Digest:    not written (%s)\n", r.DigestError)
	}
	cmd.Printf("  Duration:  %s\n", r.Duration().Round(time.Millisecond))
}
