package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run collection passes on the configured cron schedule",
	Long: `Starts a foreground loop that runs a pass at every fire time of
schedule.cron. Passes never overlap: the next fire time is computed after the
previous pass finishes. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Scheduler started. Press Ctrl-C to stop.")
	err := scheduler.Start(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if stopErr := scheduler.Stop(); err == nil {
		err = stopErr
	}
	if err != nil {
		return err
	}
	cmd.Println("Scheduler stopped.")
	return nil
}
