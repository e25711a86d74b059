package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "Print the current disease zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.refreshIfRequested(cmd)
			return printJSON(cmd, c.app.DiseaseZones(cmd.Context()))
		},
	}
}
