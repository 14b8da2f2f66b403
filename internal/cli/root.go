package cli

import (
	"github.com/spf13/cobra"

	"dompet/internal/config"
	"dompet/internal/log"
)

var (
	configPath string

	// Set by the root command before any subcommand runs.
	appConfig *config.Config
	appLogger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dompet",
	Short: "Daily expense and income tracker backed by a spreadsheet",
	Long: `dompet records daily expenses and sales income in a Google spreadsheet
and shows weekly and monthly totals. Configuration comes from the environment,
an optional .env file and an optional TOML file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		LoadEnvFile()
		cfg, err := LoadAndValidateConfig(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
		appLogger = SetupLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (default $DOMPET_CONFIG)")
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}
