package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hupe1980/manifestsplit/internal/config"
	"github.com/hupe1980/manifestsplit/internal/logging"
	"github.com/hupe1980/manifestsplit/internal/output"
	"github.com/hupe1980/manifestsplit/internal/split"
)

// splitOptions holds flags that are not part of the persisted config.
type splitOptions struct {
	diff bool
}

func registerSplitFlags(cmd *cobra.Command, opts *splitOptions) {
	f := cmd.Flags()
	f.StringP("output-dir", "o", config.DefaultOutputDir, "directory to write the split manifests to")
	f.Int("indent", config.DefaultIndent, "spaces per indentation level in written files")
	f.BoolVar(&opts.diff, "diff", false, "show a unified diff against existing files instead of writing")
}

func runSplit(cmd *cobra.Command, opts *splitOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	in := cmd.InOrStdin()
	if isTerminal(in) {
		logger.Info("reading manifests from stdin; pipe input or press Ctrl-D to finish")
	}

	out := cmd.OutOrStdout()
	if cfg.Quiet && !opts.diff {
		out = io.Discard
	}

	s := split.New(split.Options{
		OutputDir: cfg.OutputDir,
		Serialize: output.SerializeOptions{Indent: cfg.Indent},
		Diff:      opts.diff,
		Color:     !cfg.NoColor && isTerminal(cmd.OutOrStdout()),
		Logger:    logger,
		Out:       out,
	})

	report, err := s.Split(ctx, in)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if failed := report.Failed(); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, f := range failed {
			names = append(names, f.Filename)
		}

		logger.Warn("some files could not be written",
			slog.Int("failed", len(failed)),
			slog.Any("files", names),
		)
	}

	logger.Debug("split complete",
		slog.String("dir", report.OutputDir),
		slog.Int("files", len(report.Files)),
		slog.Int("skipped", report.Skipped),
		slog.Bool("indexed", !report.IndexSkipped()),
	)

	return nil
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
