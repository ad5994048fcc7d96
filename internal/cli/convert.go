package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/scene"
)

// convertCommand creates the convert command for rewriting a scene file.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a scene between TOML and JSON",
		Long: `Convert a scene between TOML and JSON.

The scene is validated on the way through, and entries without an id are
written out with the generated UUID so later edits can refer to them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], args[1])
		},
	}
}

func (c *CLI) runConvert(_ context.Context, input, output string) error {
	s, err := scene.Load(input)
	if err != nil {
		return err
	}
	g, err := s.Build()
	if err != nil {
		return err
	}
	if err := scene.FromGraph(g, s.Canvas).Save(output); err != nil {
		return err
	}
	c.Logger.Debug("scene converted", "from", input, "to", output)
	printSuccess("Converted %s", s)
	printFile(output)
	return nil
}
