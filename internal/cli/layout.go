package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/config"
	"github.com/matzehuels/erdlayout/pkg/diagram"
	"github.com/matzehuels/erdlayout/pkg/layout"
)

// layoutFlags holds the flag overrides for the layout command. A value is
// only applied when the flag was explicitly set, so zero is a valid override.
type layoutFlags struct {
	hgap    float64
	vgap    float64
	originX float64
	originY float64
	minHGap float64
	sweeps  int
}

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute a layered layout for a diagram",
		Long: `Compute a layered layout for a diagram.

The layout command reads a diagram.json file, assigns each node to a
horizontal level, orders the levels to reduce edge crossings, and computes
pixel coordinates. The result is written as a layout.json file with the
same nodes and edges, positions replaced.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			lcfg := cfg.Layout.ToLayout()
			applyLayoutFlags(cmd, &lcfg, flags)
			return c.runLayout(cmd.Context(), args[0], lcfg, cfg, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().Float64Var(&flags.hgap, "hgap", layout.DefaultHGap, "horizontal spacing between node centers")
	cmd.Flags().Float64Var(&flags.vgap, "vgap", layout.DefaultVGap, "vertical spacing between levels")
	cmd.Flags().Float64Var(&flags.originX, "origin-x", layout.DefaultOriginX, "x coordinate each row is centered on")
	cmd.Flags().Float64Var(&flags.originY, "origin-y", layout.DefaultOriginY, "y coordinate of the first level")
	cmd.Flags().Float64Var(&flags.minHGap, "min-hgap", layout.DefaultMinHGap, "minimum horizontal gap after junction pull")
	cmd.Flags().IntVar(&flags.sweeps, "sweeps", layout.DefaultSweepIterations, "number of crossing-reduction sweeps")

	return cmd
}

// applyLayoutFlags overlays explicitly set flags on the config values, so the
// precedence is flags > config file > defaults.
func applyLayoutFlags(cmd *cobra.Command, cfg *layout.Config, flags layoutFlags) {
	if cmd.Flags().Changed("hgap") {
		cfg.HGap = flags.hgap
	}
	if cmd.Flags().Changed("vgap") {
		cfg.VGap = flags.vgap
	}
	if cmd.Flags().Changed("origin-x") {
		cfg.OriginX = flags.originX
	}
	if cmd.Flags().Changed("origin-y") {
		cfg.OriginY = flags.originY
	}
	if cmd.Flags().Changed("min-hgap") {
		cfg.MinHGap = flags.minHGap
	}
	if cmd.Flags().Changed("sweeps") && flags.sweeps >= 0 {
		cfg.SweepIterations = flags.sweeps
	}
}

// runLayout loads the diagram, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, lcfg layout.Config, cfg config.Config, output string, noCache bool) error {
	d, err := diagram.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	store := c.newCache(ctx, cfg, noCache)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	placed, stats, cacheHit := c.computeCached(ctx, store, d, lcfg)
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if stats.Truncated {
		printWarning("Diagram has %d nodes, limit is %d. Positions left unchanged.", stats.Nodes, lcfg.MaxNodes)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	result := diagram.Diagram{Nodes: placed, Edges: d.Edges}
	if err := diagram.WriteDiagramFile(result, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(stats.Nodes, stats.Edges, stats.Levels, cacheHit)
	printCrossings(stats.CrossingsBefore, stats.CrossingsAfter)
	printNewline()
	printNextStep("Render", "erdlayout render "+outputPath)

	return nil
}

// cachedLayout is the serialized cache entry for a layout run.
type cachedLayout struct {
	Nodes []diagram.Node `json:"nodes"`
	Stats layout.Stats   `json:"stats"`
}

// computeCached runs the layout engine with cache memoization. Cache failures
// degrade to a plain compute.
func (c *CLI) computeCached(ctx context.Context, store cache.Cache, d diagram.Diagram, lcfg layout.Config) ([]diagram.Node, layout.Stats, bool) {
	key := layoutCacheKey(d, lcfg)

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		var entry cachedLayout
		if err := json.Unmarshal(data, &entry); err == nil {
			return entry.Nodes, entry.Stats, true
		}
		_ = store.Delete(ctx, key)
	}

	placed, stats := layout.ComputeWithStats(d.Nodes, d.Edges, lcfg)

	if data, err := json.Marshal(cachedLayout{Nodes: placed, Stats: stats}); err == nil {
		if err := store.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			c.Logger.Debug("cache set failed", "err", err)
		}
	}

	return placed, stats, false
}

func layoutCacheKey(d diagram.Diagram, lcfg layout.Config) string {
	content, _ := json.Marshal(d)
	return cache.LayoutKey(cache.Hash(content), cache.LayoutKeyOpts{
		HGap:            lcfg.HGap,
		VGap:            lcfg.VGap,
		OriginX:         lcfg.OriginX,
		OriginY:         lcfg.OriginY,
		MinHGap:         lcfg.MinHGap,
		SweepIterations: lcfg.SweepIterations,
		MaxNodes:        lcfg.MaxNodes,
	})
}
