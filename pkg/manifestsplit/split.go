// Package manifestsplit provides a public Go API for splitting a
// multi-document Kubernetes manifest stream into kind-grouped files plus a
// kustomization.yaml index.
//
// Basic usage:
//
//	report, err := manifestsplit.Split(ctx, os.Stdin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.OutputDir)
//
// With options:
//
//	report, err := manifestsplit.Split(ctx, r,
//	    manifestsplit.WithOutputDir("istio/base"),
//	    manifestsplit.WithIndent(4),
//	    manifestsplit.WithLogger(slog.Default()),
//	)
package manifestsplit

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/manifestsplit/internal/config"
	"github.com/hupe1980/manifestsplit/internal/logging"
	"github.com/hupe1980/manifestsplit/internal/output"
	"github.com/hupe1980/manifestsplit/internal/routing"
	"github.com/hupe1980/manifestsplit/internal/split"
	"github.com/hupe1980/manifestsplit/internal/yamlutil"
)

// DefaultOutputDir is used when WithOutputDir is not given.
const DefaultOutputDir = config.DefaultOutputDir

type (
	// Report summarizes a split run.
	Report = split.Report

	// FileResult is the outcome for one output file.
	FileResult = split.FileResult

	// ParseError is returned when the input is not valid YAML.
	ParseError = yamlutil.ParseError

	// DirectoryError is returned when the output directory cannot be created.
	DirectoryError = split.DirectoryError

	// Route is one entry of the kind-to-file routing table.
	Route = routing.Route
)

// Option configures a split run.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	outputDir string
	indent    int
	diff      bool
	color     bool
	logger    *slog.Logger
	out       io.Writer
}

// WithOutputDir sets the directory files are written to.
func WithOutputDir(dir string) Option { return func(o *options) { o.outputDir = dir } }

// WithIndent sets the number of spaces per indentation level.
func WithIndent(n int) Option { return func(o *options) { o.indent = n } }

// WithDiff prints unified diffs against existing files instead of writing.
func WithDiff() Option { return func(o *options) { o.diff = true } }

// WithColor enables ANSI colors in diff output.
func WithColor() Option { return func(o *options) { o.color = true } }

// WithLogger sets the logger for diagnostics. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithOutput sets where progress lines and diffs are printed. Discarded by
// default.
func WithOutput(w io.Writer) Option { return func(o *options) { o.out = w } }

// Split reads a manifest stream from r and writes one file per populated
// bucket and a kustomization.yaml into the output directory. Per-file
// write failures are reported in the returned Report; the error is
// non-nil only for invalid options, a *DirectoryError, or a parse error
// wrapping *ParseError.
func Split(ctx context.Context, r io.Reader, opts ...Option) (*Report, error) {
	o := &options{}
	for _, fn := range opts {
		fn(o)
	}

	o.applyDefaults()

	if o.indent < config.MinIndent || o.indent > config.MaxIndent {
		return nil, fmt.Errorf("indent must be between %d and %d, got %d",
			config.MinIndent, config.MaxIndent, o.indent)
	}

	s := split.New(split.Options{
		OutputDir: o.outputDir,
		Serialize: output.SerializeOptions{Indent: o.indent},
		Diff:      o.diff,
		Color:     o.color,
		Logger:    o.logger,
		Out:       o.out,
	})

	return s.Split(ctx, r)
}

// FileFor returns the output filename a document of the given kind is
// written to.
func FileFor(kind string) string {
	return routing.Filename(kind)
}

// Routes returns the routing table sorted by kind.
func Routes() []Route {
	return routing.Routes()
}

func (o *options) applyDefaults() {
	if o.outputDir == "" {
		o.outputDir = DefaultOutputDir
	}

	if o.indent == 0 {
		o.indent = config.DefaultIndent
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	if o.out == nil {
		o.out = io.Discard
	}
}
