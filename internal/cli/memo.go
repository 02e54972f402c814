package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/overhang-risk/internal/memo"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MemoOptions holds flags for the memo command.
type MemoOptions struct {
	PDF bool
	Out string
}

// NewMemoCommand creates the memo command.
func NewMemoCommand(rootOpts *RootOptions) *cobra.Command {
	memoOpts := &MemoOptions{}

	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Render the investor/lender summary memo",
		Long: `Render the investor/lender summary memo as markdown, or as a PDF with a
chart of the TBV overhang range.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemo(rootOpts, memoOpts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&memoOpts.PDF, "pdf", false, "render a PDF instead of markdown")
	cmd.Flags().StringVarP(&memoOpts.Out, "out", "o", "", "output path (markdown defaults to stdout)")

	return cmd
}

func runMemo(opts *RootOptions, memoOpts *MemoOptions, w io.Writer) error {
	const op = "cli.runMemo"

	s, err := newSession(opts, op)
	if err != nil {
		return err
	}
	defer s.close()

	a, err := s.analyze(op)
	if err != nil {
		return err
	}

	var data []byte
	path := memoOpts.Out
	if memoOpts.PDF {
		data, err = memo.PDF(a, memo.PDFOptions{Compress: true})
		if path == "" {
			path = constants.DefaultMemoFile
		}
	} else {
		var text string
		text, err = memo.Markdown(a)
		data = []byte(text)
	}
	if err != nil {
		return fmt.Errorf("failed to render memo: %w", err)
	}

	if path == "" {
		_, err = w.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Error("failed to write memo",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("failed to write memo: %w", err)
	}

	s.logger.Info("memo written",
		zap.String("op", op),
		zap.String("path", path),
		zap.Bool("pdf", memoOpts.PDF),
	)
	_, err = fmt.Fprintf(w, "Memo written to %s\n", path)
	return err
}
