package cli

import (
	"fmt"
	"io"

	"github.com/iwvelando/overhang-risk/internal/memo"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/iwvelando/overhang-risk/pkg/output"
	"github.com/iwvelando/overhang-risk/pkg/validation"
	"github.com/spf13/cobra"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute TBV overhang exposure for the configured unit mix",
		Long: `Compute the net LIHTC rent and overhang for each unit type, the minimum and
maximum exposure from placing tenant-based vouchers, and the exposure for the
selected scenario.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, scenario, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "scenario override (max-risk, min-risk, partial-loss)")

	return cmd
}

func runAnalyze(opts *RootOptions, scenario string, w io.Writer) error {
	const op = "cli.runAnalyze"

	s, err := newSession(opts, op)
	if err != nil {
		return err
	}
	defer s.close()

	if scenario != "" {
		s.conf.Scenario = scenario
	}

	format := opts.OutputFormat
	if format == "" {
		format = s.conf.Output.Format
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	a, err := s.analyze(op)
	if err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, a)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, a)
	case constants.OutputFormatMarkdown:
		text, err := memo.Markdown(a)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, text)
		return err
	default:
		output.PrettyFormat(w, a)
		return nil
	}
}
