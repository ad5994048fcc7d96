package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodecanvas/pkg/diagram"
	"github.com/matzehuels/nodecanvas/pkg/topology"
)

// pointsPerInch converts Graphviz node sizes (inches) to positions (points).
const pointsPerInch = 72.0

// Layout selects the Graphviz layout engine.
type Layout string

const (
	LayoutDot   Layout = "dot"
	LayoutNeato Layout = "neato"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes bounds and port counts in node labels.
	Detailed bool

	// Pinned fixes each node at its world position.
	Pinned bool

	// HighlightCycles marks nodes and connections that lie on a cycle.
	HighlightCycles bool

	// Scale maps world units to points. Zero means 1.
	Scale float64
}

type edgeKey struct{ from, to string }

// ToDOT converts a diagram to Graphviz DOT. Every connection becomes one
// edge, so parallel connections are drawn separately.
func ToDOT(g *diagram.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	onCycle := map[string]bool{}
	cycleEdges := map[edgeKey]bool{}
	if opts.HighlightCycles {
		for _, c := range topology.DetectCycles(g) {
			for i, id := range c {
				onCycle[id] = true
				cycleEdges[edgeKey{id, c[(i+1)%len(c)]}] = true
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	if opts.Pinned {
		buf.WriteString("  splines=true;\n")
		buf.WriteString("  overlap=true;\n")
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, n, opts.Detailed))}
		if opts.Pinned {
			c := n.Bounds.Center()
			attrs = append(attrs,
				fmt.Sprintf("pos=\"%s,%s!\"", num(c.X*scale), num(-c.Y*scale)),
				fmt.Sprintf("width=%s", num(n.Bounds.Width*scale/pointsPerInch)),
				fmt.Sprintf("height=%s", num(n.Bounds.Height*scale/pointsPerInch)),
				"fixedsize=true",
			)
		}
		if onCycle[n.ID] {
			attrs = append(attrs, "color=red", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Connections() {
		from, _ := g.Port(c.FromPort)
		to, _ := g.Port(c.ToPort)
		attrs := []string{fmt.Sprintf("id=%q", c.ID)}
		if cycleEdges[edgeKey{from.NodeID, to.NodeID}] {
			attrs = append(attrs, "color=red", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from.NodeID, to.NodeID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *diagram.Graph, n diagram.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	b := n.Bounds
	return fmt.Sprintf("%s\n%s,%s %sx%s\nports: %d",
		label, num(b.X), num(b.Y), num(b.Width), num(b.Height), len(g.Ports(n.ID)))
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using the given layout engine.
func RenderSVG(ctx context.Context, dot string, layout Layout) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if layout != "" {
		gv.SetLayout(graphviz.Layout(layout))
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox drops Graphviz's pt-based width/height so the SVG scales
// to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
