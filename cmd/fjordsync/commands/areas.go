package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newAreasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "areas",
		Short: "Print the marine protected areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.refreshIfRequested(cmd)
			bbox, _ := cmd.Flags().GetString("bbox")
			return printJSON(cmd, c.app.ProtectedAreas(cmd.Context(), bbox))
		},
	}
	cmd.Flags().StringP("bbox", "b", "", "Bounding box filter as minLng,minLat,maxLng,maxLat")
	return cmd
}
