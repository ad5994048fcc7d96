package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

// queryOpts holds the command-line flags for the query command.
// Exactly one of point, rect and nearest must be set.
type queryOpts struct {
	point     string  // "x,y"
	tolerance float64 // hit slop around point
	rect      string  // "x,y,w,h"
	nearest   string  // "x,y"
	maxDist   float64 // search radius for nearest
}

// queryCommand creates the query command for hit-testing a scene.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query [scene]",
		Short: "Hit-test a scene by point, rectangle or proximity",
		Example: `  nodecanvas query scene.toml --point 120,40 --tol 4
  nodecanvas query scene.toml --rect 0,0,500,300
  nodecanvas query scene.toml --nearest 90,90 --max 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.point, "point", "", "elements under x,y")
	cmd.Flags().Float64Var(&opts.tolerance, "tol", 0, "hit tolerance for --point (world units)")
	cmd.Flags().StringVar(&opts.rect, "rect", "", "elements touching x,y,w,h")
	cmd.Flags().StringVar(&opts.nearest, "nearest", "", "closest element to x,y")
	cmd.Flags().Float64Var(&opts.maxDist, "max", 0, "search radius for --nearest (default: one grid cell)")
	cmd.MarkFlagsMutuallyExclusive("point", "rect", "nearest")
	cmd.MarkFlagsOneRequired("point", "rect", "nearest")

	return cmd
}

func (c *CLI) runQuery(_ context.Context, input string, opts queryOpts) error {
	ws, err := c.load(input)
	if err != nil {
		return err
	}
	ix := ws.index

	var hits []spatial.Element
	switch {
	case opts.point != "":
		p, err := parsePoint(opts.point)
		if err != nil {
			return err
		}
		hits = ix.QueryPoint(p, opts.tolerance)
	case opts.rect != "":
		r, err := parseRect(opts.rect)
		if err != nil {
			return err
		}
		hits = ix.QueryRect(r)
	case opts.nearest != "":
		p, err := parsePoint(opts.nearest)
		if err != nil {
			return err
		}
		maxDist := opts.maxDist
		if maxDist <= 0 {
			maxDist = ix.GridSize()
		}
		if e, ok := ix.QueryNearest(p, maxDist); ok {
			hits = []spatial.Element{e}
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "one of --point, --rect or --nearest is required")
	}

	if len(hits) == 0 {
		printInfo("No elements")
		return nil
	}
	for _, e := range hits {
		fmt.Printf("%s %s %s\n",
			StyleDim.Render(fmt.Sprintf("%-10s", e.Kind)),
			StyleHighlight.Render(e.ID),
			StyleDim.Render(e.Bounds.String()))
	}
	return nil
}
