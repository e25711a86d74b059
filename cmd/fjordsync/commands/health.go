package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/fjordsync/internal/core/domain"
)

// healthOutput is the JSON envelope of the health command.
type healthOutput struct {
	Year    int                     `json:"year"`
	Week    int                     `json:"week"`
	Reports []domain.LocalityHealth `json:"reports"`
}

func (c *CLI) newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Print per-locality fish health reports for an ISO week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.refreshIfRequested(cmd)
			year, _ := cmd.Flags().GetInt("year")
			week, _ := cmd.Flags().GetInt("week")
			quiet, _ := cmd.Flags().GetBool("quiet")

			var onProgress func(percent, results int)
			if !quiet {
				onProgress = func(percent, results int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%3d%% (%d reports)\n", percent, results)
				}
			}

			reports, year, week := c.app.FishHealth(cmd.Context(), year, week, onProgress)
			return printJSON(cmd, healthOutput{Year: year, Week: week, Reports: reports})
		},
	}
	cmd.Flags().IntP("year", "y", 0, "ISO year to report on (default: current)")
	cmd.Flags().IntP("week", "w", 0, "ISO week to report on (default: current)")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	return cmd
}
