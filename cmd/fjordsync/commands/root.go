// Package commands implements the CLI commands for fjordsync.
package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/fjordsync/internal/app"
	"go.trai.ch/fjordsync/internal/build"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for fjordsync.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "fjordsync",
		Short:         "Synchronize Norwegian aquaculture geodata for offline use",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("refresh", false, "Invalidate all caches before fetching")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newZonesCmd())
	rootCmd.AddCommand(c.newHealthCmd())
	rootCmd.AddCommand(c.newAreasCmd())
	rootCmd.AddCommand(c.newPolygonsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects the command output streams. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

// refreshIfRequested invalidates the caches when --refresh was passed.
func (c *CLI) refreshIfRequested(cmd *cobra.Command) {
	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		c.app.Refresh()
	}
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode output")
	}
	return nil
}
