package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pressiona/radar-social/pkg/batch"
	"github.com/pressiona/radar-social/pkg/legislator"
)

// Batch command flags, shared by deputies and senators.
var (
	batchLimit     int
	batchPlatforms []string
	batchDryRun    bool
)

var deputiesCmd = &cobra.Command{
	Use:   "deputies",
	Short: "Resolve social accounts for every serving federal deputy",
	Long: `Resolve social accounts for every federal deputy currently in
office, as listed by the Chamber open-data API.

Legislators are processed one at a time with politeness delays between
them, so a full run over the 513 deputies takes a while on purpose.
Deputies already resolved inside the freshness window are skipped when
the redis cache is enabled.

Examples:
  radar deputies
  radar deputies --limit 20 --dry-run
  radar deputies --platform twitter --platform instagram`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		identities, err := chamberClient(cfg, log).List(ctx)
		if err != nil {
			return fmt.Errorf("listing deputies: %w", err)
		}

		return runBatch(ctx, cmd, identities)
	},
}

// runBatch wires the resolver and processes the identities.
func runBatch(ctx context.Context, cmd *cobra.Command, identities []legislator.Identity) error {
	sink, cleanup, err := buildSink(ctx, cfg, batchDryRun, log)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := buildResolver(cfg, sink, log)
	if err != nil {
		return err
	}

	cache := buildCache(cfg, batchDryRun)
	defer cache.Close()

	batchCfg := cfg.Batch
	if batchLimit > 0 {
		batchCfg.Limit = batchLimit
	}
	if len(batchPlatforms) > 0 {
		platforms := make([]legislator.Platform, 0, len(batchPlatforms))
		for _, p := range batchPlatforms {
			platform := legislator.Platform(p)
			if !platform.Valid() {
				return fmt.Errorf("invalid platform %q", p)
			}
			platforms = append(platforms, platform)
		}
		batchCfg.Platforms = platforms
	}

	summary, err := batch.New(batchCfg, res, cache, log).Run(ctx, identities)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: processed=%d found=%d flagged=%d failed=%d skipped=%d\n",
		summary.RunID, summary.Processed, summary.Found, summary.Flagged, summary.Failed, summary.Skipped)

	return err
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&batchLimit, "limit", 0, "stop after this many legislators (0 = all)")
	cmd.Flags().StringArrayVar(&batchPlatforms, "platform", nil, "platform to resolve (repeatable, default from config)")
	cmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "do not write to the database")
}

func init() {
	addBatchFlags(deputiesCmd)
}
