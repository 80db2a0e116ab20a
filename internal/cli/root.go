// Package cli implements the cobra command tree for manifestsplit.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/manifestsplit/internal/config"
	"github.com/hupe1980/manifestsplit/internal/logging"
	"github.com/hupe1980/manifestsplit/internal/yamlutil"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	return run(NewRootCommand(), os.Stderr)
}

// run executes cmd and maps its error to an exit code, printing the error
// to stderr since cobra's own error output is silenced.
func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	printError(stderr, err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return 1
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	var perr *yamlutil.ParseError
	if !errors.As(err, &perr) || !perr.HasPosition() {
		return
	}

	if perr.Column > 0 {
		_, _ = fmt.Fprintf(w, "Error found near line %d, column %d\n", perr.Line, perr.Column)
	} else {
		_, _ = fmt.Fprintf(w, "Error found near line %d\n", perr.Line)
	}
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached. The root command itself performs the split.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   "manifestsplit",
		Short: "Split a Kubernetes manifest stream into kind-grouped files",
		Long: `manifestsplit reads a multi-document Kubernetes/Istio manifest stream from
standard input and writes each document to a file chosen by its kind
(deployments.yaml, services.yaml, rbac.yaml, policies.yaml, ...). Kinds
without a route go to others.yaml.

A kustomization.yaml listing the populated files is generated alongside.
crds.yaml and istiooperators.yaml are written but not listed.

Example:
  istioctl manifest generate | manifestsplit -o istio/base`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.LogAttrs(ctx, slog.LevelDebug, "configuration loaded", cfg.LogAttrs()...)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSplit(cmd, opts)
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .manifestsplit.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress progress lines and info logs (warnings and errors are still shown)")

	registerSplitFlags(cmd, opts)

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newKindsCommand(),
		newCompletionCommand(),
	)

	return cmd
}
