// Package cli provides the radar command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/radar/internal/core/ports/driving"
	"github.com/custodia-labs/radar/internal/logger"
)

// version is set at build time via ldflags or SetVersion.
var version = "dev"

// Global flags.
var (
	configPath string
	dataDir    string
	verbose    bool
)

// Services injected by the bootstrap hook (or directly by tests).
var (
	settingsService driving.SettingsService
	pipeline        driving.Pipeline
	historyService  driving.HistoryService
	scheduler       driving.Scheduler
	closeServices   func()
)

// Options carries the flags the bootstrap needs to build services.
type Options struct {
	ConfigPath string
	DataDir    string
	DryRun     bool
}

// Services is what a bootstrap returns. Close releases held resources.
type Services struct {
	Settings  driving.SettingsService
	Pipeline  driving.Pipeline
	History   driving.HistoryService
	Scheduler driving.Scheduler
	Close     func()
}

// Bootstrap builds services once flags have been parsed.
type Bootstrap func(opts Options) (*Services, error)

var bootstrap Bootstrap

var rootCmd = &cobra.Command{
	Use:   "radar",
	Short: "Collect, filter and summarise topic news into a bounded history",
	Long: `radar pulls short news and paper items from configured sources,
drops anything already stored, asks a model to judge and summarise what is
new, and keeps the most recent items in a JSON history with a daily digest.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/radar/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for history, digest and run ledger")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the hook that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer func() {
		if closeServices != nil {
			closeServices()
			closeServices = nil
		}
	}()
	return rootCmd.Execute()
}

// prepare applies global flags and builds services for commands that need them.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd == versionCmd || bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(Options{
		ConfigPath: configPath,
		DataDir:    dataDir,
		DryRun:     runDryRun,
	})
	if err != nil {
		return err
	}
	if svc == nil {
		return errors.New("bootstrap returned no services")
	}

	settingsService = svc.Settings
	pipeline = svc.Pipeline
	historyService = svc.History
	scheduler = svc.Scheduler
	closeServices = svc.Close
	return nil
}
