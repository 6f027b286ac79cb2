package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/resolver"
)

// Resolve command flags.
var (
	resolveRole      string
	resolveID        int64
	resolvePlatforms []string
	resolveDryRun    bool
	resolveOutput    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the social accounts of a single legislator",
	Long: `Resolve the social accounts of one legislator through the full
source chain.

The legislator is identified by role and numeric id: the Chamber deputy
id for deputies, the Senate parliamentary code for senators. The full
identity record is fetched from the matching open-data directory first.

Examples:
  radar resolve --role deputy --id 204554
  radar resolve --role senator --id 5672 --platform instagram
  radar resolve --role deputy --id 204554 --dry-run --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role := legislator.Role(resolveRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q (must be deputy or senator)", resolveRole)
		}
		if resolveID <= 0 {
			return fmt.Errorf("--id is required")
		}

		ctx, cancel := signalContext()
		defer cancel()

		identity, err := lookupIdentity(ctx, cfg, role, resolveID, log)
		if err != nil {
			return err
		}

		sink, cleanup, err := buildSink(ctx, cfg, resolveDryRun, log)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := buildResolver(cfg, sink, log)
		if err != nil {
			return err
		}

		platforms := resolvePlatforms
		if len(platforms) == 0 {
			platforms = cfg.Resolver.Platforms
		}

		out := cmd.OutOrStdout()
		for _, p := range platforms {
			platform := legislator.Platform(p)
			if !platform.Valid() {
				return fmt.Errorf("invalid platform %q", p)
			}

			result, err := res.Resolve(ctx, identity, platform)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", platform, err)
			}
			if err := renderResult(out, resolveOutput, result); err != nil {
				return err
			}
		}
		return nil
	},
}

// renderResult writes one resolution result as text or JSON.
func renderResult(w io.Writer, format string, result resolver.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	name := result.Legislator.DisplayName()
	if !result.Found() {
		fmt.Fprintf(w, "%s  %s: no account found\n", name, result.Platform)
		return nil
	}

	line := fmt.Sprintf("%s  %s: %s  (source=%s tier=%s score=%d)",
		name, result.Platform, *result.CanonicalURL, result.Source, result.Tier, result.Score)
	if result.NeedsReview {
		line += "  NEEDS REVIEW"
	}
	fmt.Fprintln(w, line)
	if len(result.Reasons) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(result.Reasons, "; "))
	}
	return nil
}

func init() {
	resolveCmd.Flags().StringVar(&resolveRole, "role", "", "legislator role: deputy or senator (required)")
	resolveCmd.Flags().Int64Var(&resolveID, "id", 0, "numeric legislator id (required)")
	resolveCmd.Flags().StringArrayVar(&resolvePlatforms, "platform", nil, "platform to resolve (repeatable, default from config)")
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "do not write to the database")
	resolveCmd.Flags().StringVar(&resolveOutput, "output", "text", "output format: text or json")
	_ = resolveCmd.MarkFlagRequired("role")
	_ = resolveCmd.MarkFlagRequired("id")
}
