package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/radar/internal/core/domain"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Show the latest daily digest",
	Args:  cobra.NoArgs,
	RunE:  runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	digest, err := historyService.LatestDigest(cmd.Context())
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No digest written yet.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load digest: %w", err)
	}

	cmd.Printf("Digest for %s\n\n", digest.Date)
	cmd.Println(digest.Content)
	return nil
}
