package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var senatorsCmd = &cobra.Command{
	Use:   "senators",
	Short: "Resolve social accounts for every serving senator",
	Long: `Resolve social accounts for every senator currently in office,
as listed by the Senate open-data API.

The Senate directory carries no social media fields, so resolution for
senators starts at the institutional profile page and falls back to web
search and the assistant from there.

Examples:
  radar senators
  radar senators --limit 10 --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		identities, err := senateClient(cfg, log).List(ctx)
		if err != nil {
			return fmt.Errorf("listing senators: %w", err)
		}

		return runBatch(ctx, cmd, identities)
	},
}

func init() {
	addBatchFlags(senatorsCmd)
}
