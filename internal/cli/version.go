package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := rootOpts.Version
			if version == "" {
				version = "dev"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "overhang %s\n", version)
			return err
		},
	}
}
