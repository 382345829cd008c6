package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soundviewhealth/chc-scheduler/cmd/cli/commands"
	"github.com/soundviewhealth/chc-scheduler/internal/config"
	"github.com/soundviewhealth/chc-scheduler/pkg/clients/xlsxclient"
	"github.com/soundviewhealth/chc-scheduler/pkg/utils/logging"
)

var (
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chc-scheduler",
		Short: "CHC Scheduler - Generate provider shift schedules",
		Long:  `A CLI tool for generating monthly provider shift schedules across clinic locations, balancing PTO, weekly caps, Saturday quotas and shift preferences.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output on the console")

	rootCmd.AddCommand(commands.GenerateCmd(appRef()))
	rootCmd.AddCommand(commands.ListProvidersCmd(appRef()))
	rootCmd.AddCommand(commands.HolidaysCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext; fields are populated by initApp
// before any command runs.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config and the xlsx client
func initApp() error {
	var err error
	a := appRef()

	a.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.Logger, err = logging.NewLogger(logging.Options{
		Verbose: verbose,
		LogFile: a.Cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Xlsx = xlsxclient.NewClient(a.Logger)
	a.Logger.Debug("Application initialized")

	return nil
}
