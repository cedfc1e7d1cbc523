// Package root contains the root command for the application.
package root

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/config"
	"github.com/matheusbnas/dashboard-financeiro-AI/internal/logging"
)

// CommonFlags holds the flags shared by multiple commands.
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands, configured in
	// PersistentPreRun.
	Log logging.Logger = logging.GetLogger()

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// SharedFlags are common flags accessible to all commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "finance",
		Short: "Categorize bank statement transactions and analyze spending health.",
		Long: `finance is a CLI tool that categorizes bank card transactions using a
cached fingerprint store, an LLM classifier and keyword rules, then derives
monthly insights, anomaly alerts, a financial health score and next-month
forecasts from the categorized history.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finance!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Initialize()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.ConfigureLogging(cfg)
			return nil
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
