package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPolygonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "polygons",
		Short: "Print the aquaculture site polygons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.refreshIfRequested(cmd)
			return printJSON(cmd, c.app.LocalityPolygons(cmd.Context()))
		},
	}
}
