// Package cmd provides the CLI commands for the radar tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pressiona/radar-social/config"
	"github.com/pressiona/radar-social/pkg/logging"
)

// Global flags and state.
var (
	cfgFile string
	debug   bool
	jsonLog bool

	// cfg holds the loaded configuration.
	cfg *config.Config

	// log is the shared logger, built from the config.
	log logging.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "radar",
	Short: "Resolve official social accounts of Brazilian federal legislators",
	Long: `radar resolves the authentic social media accounts of Brazilian
federal deputies and senators.

For each legislator it walks a chain of sources, from most to least
trustworthy: the Chamber open-data API, the institutional profile page,
a web search, and finally an AI assistant with live search. Candidates
from the less trusted sources are scored against the legislator's name
before being accepted, and uncertain matches are flagged for manual
review.

Results are persisted to PostgreSQL, including null results, so a batch
run leaves a complete picture of what was and was not found.

Examples:
  # Resolve one deputy's Twitter/X account without touching the database
  radar resolve --role deputy --id 204554 --dry-run

  # Resolve every serving deputy, stopping after the first 20
  radar deputies --limit 20

  # Same for senators, Instagram included
  radar senators --platform twitter --platform instagram

The assistant stage needs RADAR_XAI_API_KEY; without it the stage is
skipped. Database credentials come from RADAR_DB_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that don't need configuration.
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		// Flag overrides.
		logCfg := cfg.Logging
		if debug {
			logCfg.Level = "debug"
		}
		if jsonLog {
			logCfg.JSON = true
		}
		log = logging.NewLogger(logCfg.Build())

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.radar/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "log in JSON format")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(deputiesCmd)
	rootCmd.AddCommand(senatorsCmd)
	rootCmd.AddCommand(versionCmd)
}
