package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/internal/metrics"
	"github.com/matzehuels/nodecanvas/internal/server"
	"github.com/matzehuels/nodecanvas/pkg/observability"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

const defaultAddr = "127.0.0.1:8080"

// serveCommand creates the serve command for the HTTP debug server.
func (c *CLI) serveCommand() *cobra.Command {
	addr := defaultAddr

	cmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "Serve a scene's index over HTTP for debugging",
		Long: `Serve a scene's index over HTTP for debugging.

Endpoints:
  GET    /cells                       occupied grid cells
  GET    /elements/{id}               one indexed element
  GET    /query/rect?x=&y=&w=&h=      elements touching a rectangle
  GET    /query/point?x=&y=&tol=      elements under a point
  GET    /query/nearest?x=&y=&max=    closest element
  GET    /topology                    cycles, orphans, components, bounds
  POST   /nodes/{id}/move             {"dx": 10, "dy": 0}
  DELETE /nodes/{id}                  remove a node and its attachments
  GET    /metrics                     Prometheus metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	observability.SetIndexHooks(m)
	observability.SetTopologyHooks(m)

	ws, err := c.load(input, spatial.WithHooks(m))
	if err != nil {
		return err
	}

	srv := server.New(ws.graph, ws.index, server.WithLogger(c.Logger), server.WithMetrics(m, reg))
	printInfo("Serving %s on http://%s", input, addr)
	return srv.ListenAndServe(ctx, addr)
}
