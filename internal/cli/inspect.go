package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/topology"
)

// inspectCommand creates the inspect command for summarizing a scene.
func (c *CLI) inspectCommand() *cobra.Command {
	var showCells bool

	cmd := &cobra.Command{
		Use:   "inspect [scene]",
		Short: "Summarize a scene's index and topology",
		Long: `Summarize a scene's index and topology.

Prints element counts, grid occupancy and the diagram bounds, then reports
directed cycles, orphan nodes and connected components. With --cells every
occupied grid cell is listed with its element breakdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], showCells)
		},
	}

	cmd.Flags().BoolVar(&showCells, "cells", false, "list every occupied grid cell")

	return cmd
}

func (c *CLI) runInspect(_ context.Context, input string, showCells bool) error {
	ws, err := c.load(input)
	if err != nil {
		return err
	}
	g, ix := ws.graph, ws.index

	fmt.Println(StyleTitle.Render(input))
	printKeyValue("Grid", num(ix.GridSize()))
	printKeyValue("Nodes", strconv.Itoa(g.NodeCount()))
	printKeyValue("Ports", strconv.Itoa(g.PortCount()))
	printKeyValue("Connections", strconv.Itoa(g.ConnectionCount()))
	printKeyValue("Elements", strconv.Itoa(ix.Len()))
	printKeyValue("Cells", strconv.Itoa(ix.CellCount()))
	printKeyValue("Bounds", topology.Bounds(g).String())
	printNewline()

	cycles := topology.DetectCycles(g)
	if len(cycles) == 0 {
		printSuccess("No cycles")
	}
	for _, cyc := range cycles {
		arrow := " " + iconArrow + " "
		printWarning("Cycle: %s", strings.Join(cyc, arrow)+arrow+cyc[0])
	}

	if orphans := topology.OrphanNodes(g); len(orphans) > 0 {
		printInfo("%d orphan node(s): %s", len(orphans), strings.Join(orphans, ", "))
	}
	comps := topology.Components(g)
	printInfo("%d connected component(s)", len(comps))
	printDetail("sources: %s", strings.Join(topology.Sources(g), ", "))
	printDetail("sinks:   %s", strings.Join(topology.Sinks(g), ", "))

	if showCells {
		printNewline()
		for _, info := range ix.ActiveCellsInfo() {
			fmt.Printf("  %s %s\n",
				StyleNumber.Render(fmt.Sprintf("(%d,%d)", info.Cell.X, info.Cell.Y)),
				StyleDim.Render(info.TypeBreakdown))
		}
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
