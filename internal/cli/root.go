// Package cli wires the overhang calculator commands together with cobra.
package cli

import (
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/iwvelando/overhang-risk/pkg/validation"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string // overrides output.format from the config file
	Version      string
}

// NewRootCommand creates the root command for the overhang CLI.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:   "overhang",
		Short: "Section 8 overhang risk calculator",
		Long: `Estimate the rent overhang a LIHTC project carries when Section 8 voucher
rents exceed the LIHTC net rent, bounded by where tenant-based vouchers land.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.OutputFormat == "" {
				return nil
			}
			return validation.ValidateOutputFormat(opts.OutputFormat)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.OutputFormat, "output-format", "", "type of output override: pretty, csv, json, markdown")

	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewMemoCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
