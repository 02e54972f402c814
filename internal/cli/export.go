package cli

import (
	"fmt"
	"io"

	"github.com/iwvelando/overhang-risk/internal/export"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the unit table and scenario summary to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, out, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "workbook path (defaults to output.exportFile)")

	return cmd
}

func runExport(opts *RootOptions, out string, w io.Writer) error {
	const op = "cli.runExport"

	s, err := newSession(opts, op)
	if err != nil {
		return err
	}
	defer s.close()

	a, err := s.analyze(op)
	if err != nil {
		return err
	}

	path := out
	if path == "" {
		path = s.conf.Output.ExportFile
	}
	if path == "" {
		path = constants.DefaultExportFile
	}

	if err := export.SaveWorkbook(path, a); err != nil {
		s.logger.Error("failed to write workbook",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("workbook written",
		zap.String("op", op),
		zap.String("path", path),
	)
	_, err = fmt.Fprintf(w, "Workbook written to %s\n", path)
	return err
}
