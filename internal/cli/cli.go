// Package cli implements the nodecanvas command-line interface.
//
// Every command takes a scene file (TOML or JSON), builds the diagram and
// its spatial index, and then inspects, queries, renders or serves it.
// Output goes to stdout with lipgloss styling; logs go to stderr through
// charmbracelet/log and become debug-level with --verbose.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/buildinfo"
	"github.com/matzehuels/nodecanvas/pkg/diagram"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/scene"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "nodecanvas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// gridSize overrides the scene's [canvas] grid_size when --grid-size is set.
	gridSize float64
	root     *cobra.Command
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodecanvas inspects node-and-connection diagrams",
		Long:         `nodecanvas loads a diagram scene, indexes it on a uniform grid, and answers hit-testing, region and topology questions about it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	c.root = root
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().Float64Var(&c.gridSize, "grid-size", 0, "override the scene's grid cell size (world units)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Workspace
// =============================================================================

// workspace is a loaded scene with its diagram and a synced index.
type workspace struct {
	scene *scene.Scene
	graph *diagram.Graph
	index *spatial.Index
}

// load reads a scene file and indexes every element. indexOpts are passed
// through to spatial.New.
func (c *CLI) load(path string, indexOpts ...spatial.Option) (*workspace, error) {
	prog := newProgress(c.Logger)

	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	gridSize, err := s.GridSize()
	if err != nil {
		return nil, err
	}
	if c.root != nil && c.root.PersistentFlags().Changed("grid-size") {
		if err := errors.ValidateGridSize(c.gridSize); err != nil {
			return nil, err
		}
		gridSize = c.gridSize
	}

	g, err := s.Build()
	if err != nil {
		return nil, err
	}
	ix, err := spatial.New(gridSize, append([]spatial.Option{spatial.WithLogger(c.Logger)}, indexOpts...)...)
	if err != nil {
		return nil, err
	}
	if err := diagram.Sync(ix, g.Elements()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "index %s", path)
	}

	c.Logger.Debug("scene loaded", "path", path, "nodes", g.NodeCount(), "ports", g.PortCount(), "connections", g.ConnectionCount(), "grid", gridSize)
	prog.done("Indexed " + s.String())
	return &workspace{scene: s, graph: g, index: ix}, nil
}
