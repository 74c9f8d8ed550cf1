package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/pkg/diagram"
	"github.com/matzehuels/erdlayout/pkg/render"
)

// renderCommand creates the render command for turning layouts into images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		detailed bool
		dotOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a laid-out diagram to SVG",
		Long: `Render a laid-out diagram to SVG.

The render command takes a layout.json file (produced by 'layout') and
renders it as an SVG. Node positions are pinned, so the image reflects the
computed layout exactly. Use --dot to emit the intermediate DOT source
instead of an image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, detailed, dotOnly)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node metadata in labels")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write DOT source instead of SVG")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, detailed, dotOnly bool) error {
	d, err := diagram.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	dot := render.ToDOT(d, render.Options{Detailed: detailed})

	ext := ".svg"
	if dotOnly {
		ext = ".dot"
	}
	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".layout")
		outputPath = base + ext
	}

	var data []byte
	if dotOnly {
		data = []byte(dot)
	} else {
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		data, err = render.SVG(dot)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spinner.Stop()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Render complete")
	printFile(outputPath)
	printStats(len(d.Nodes), len(d.Edges), 0, false)

	return nil
}
