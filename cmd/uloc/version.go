package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/uloc/internal/storage"
)

func newVersionCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the uloc version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "uloc version %s\n", version)
			if verbose {
				fmt.Fprintf(a.stdout, "Build Time: %s\n", buildTime)
				fmt.Fprintf(a.stdout, "Build Mode: %s\n", storage.BuildMode)
				fmt.Fprintf(a.stdout, "SQLite Driver: %s\n", storage.DriverName)
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print build details")
	return cmd
}
