package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/manifestsplit/internal/diff"
	"github.com/hupe1980/manifestsplit/internal/k8s"
	"github.com/hupe1980/manifestsplit/internal/k8s/parser"
	"github.com/hupe1980/manifestsplit/internal/output"
	"github.com/hupe1980/manifestsplit/internal/routing"
)

// Options configures a Splitter.
type Options struct {
	// OutputDir is the directory files are written to.
	OutputDir string

	// Serialize controls bucket file formatting.
	Serialize output.SerializeOptions

	// Diff prints unified diffs against the files on disk instead of
	// writing anything.
	Diff bool

	// Color enables ANSI colors in diff output.
	Color bool

	// Parser decodes the input stream. Defaults to parser.NewParser().
	Parser parser.Parser

	// NewWriter creates the writer for each output file. Defaults to
	// output.FileWriterFactory.
	NewWriter output.WriterFactory

	// Logger receives diagnostics.
	Logger *slog.Logger

	// Out receives progress messages and diffs.
	Out io.Writer
}

// DefaultOptions returns sensible default splitter options.
func DefaultOptions() Options {
	return Options{
		OutputDir: "istio_manifests_output",
		Serialize: output.DefaultSerializeOptions(),
		Logger:    slog.Default(),
		Out:       os.Stdout,
	}
}

// FileResult is the outcome for one output file.
type FileResult struct {
	// Filename is the bare file name (e.g. "services.yaml").
	Filename string

	// Path is the full output path.
	Path string

	// Documents is the number of documents in the file. Zero for the
	// kustomization index.
	Documents int

	// Changed is set in diff mode when the file on disk differs.
	Changed bool

	// Err is set when serializing or writing the file failed.
	Err error
}

// Report summarizes a split run.
type Report struct {
	// OutputDir is the absolute output directory.
	OutputDir string

	// NoInput is set when the input stream held no documents at all.
	NoInput bool

	// Skipped is the number of null documents ignored.
	Skipped int

	// Duplicates lists the IDs of objects that appear more than once in the
	// input, once per repeated occurrence.
	Duplicates []string

	// Files holds one result per populated bucket in bucket order.
	Files []FileResult

	// Index is the kustomization.yaml result; nil when it was skipped.
	Index *FileResult
}

// IndexSkipped reports whether no kustomization.yaml was produced
// because no indexable bucket was populated.
func (r *Report) IndexSkipped() bool {
	return r.Index == nil
}

// Failed returns every file result that carries an error.
func (r *Report) Failed() []FileResult {
	var failed []FileResult

	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}

	if r.Index != nil && r.Index.Err != nil {
		failed = append(failed, *r.Index)
	}

	return failed
}

// Splitter splits manifest streams into an output directory.
type Splitter struct {
	opts Options
}

// New creates a Splitter, filling unset options with defaults.
func New(opts Options) *Splitter {
	def := DefaultOptions()

	if opts.OutputDir == "" {
		opts.OutputDir = def.OutputDir
	}

	if opts.Serialize.Indent == 0 {
		opts.Serialize = def.Serialize
	}

	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	if opts.Out == nil {
		opts.Out = def.Out
	}

	if opts.Parser == nil {
		opts.Parser = parser.NewParser()
	}

	if opts.NewWriter == nil {
		opts.NewWriter = output.FileWriterFactory(output.WithLogger(opts.Logger))
	}

	return &Splitter{opts: opts}
}

// Split ensures the output directory exists, reads and parses r, and
// writes the buckets and the kustomization index. The returned error is
// non-nil only for fatal conditions: a *DirectoryError, a cancelled
// context, or a parse error wrapping *yamlutil.ParseError.
func (s *Splitter) Split(ctx context.Context, r io.Reader) (*Report, error) {
	if !s.opts.Diff {
		if err := EnsureDir(s.opts.OutputDir); err != nil {
			return nil, err
		}
	}

	s.printf("Output directory: %s\n", absDir(s.opts.OutputDir))

	docs, err := s.opts.Parser.Parse(ctx, r)
	if err != nil {
		return nil, err
	}

	return s.Run(docs), nil
}

// Run classifies already parsed documents and writes them. The output
// directory must exist unless diff mode is enabled.
func (s *Splitter) Run(docs []*k8s.Document) *Report {
	report := &Report{OutputDir: absDir(s.opts.OutputDir)}

	if len(docs) == 0 {
		report.NoInput = true

		s.opts.Logger.Warn("no YAML input received")

		return report
	}

	s.write(report, docs)

	return report
}

func (s *Splitter) write(report *Report, docs []*k8s.Document) {
	buckets := Classify(docs)
	report.Skipped = buckets.Skipped()

	seen := make(map[string]int, len(docs))

	for _, d := range docs {
		if d.IsNull() {
			continue
		}

		s.opts.Logger.Debug("routed document",
			slog.Int("index", d.Index),
			slog.String("resource", d.QualifiedName()),
			slog.String("gvk", d.GVK.String()),
			slog.String("namespace", d.Namespace),
			slog.String("file", routing.Filename(d.Kind())),
			slog.Bool("routed", routing.IsRouted(d.Kind())),
		)

		id := d.ID()
		if id == "" {
			continue
		}

		if first, dup := seen[id]; dup {
			report.Duplicates = append(report.Duplicates, id)
			s.opts.Logger.Warn("duplicate resource in input",
				slog.String("resource", id),
				slog.Int("first", first),
				slog.Int("index", d.Index),
			)

			continue
		}

		seen[id] = d.Index
	}

	s.opts.Logger.Debug("classified documents",
		slog.Int("documents", buckets.Documents()),
		slog.Int("skipped", buckets.Skipped()),
		slog.Any("files", buckets.Filenames()),
	)

	buckets.Each(func(b *Bucket) {
		report.Files = append(report.Files, s.writeBucket(b))
	})

	resources := IndexResources(buckets)
	if len(resources) == 0 {
		s.opts.Logger.Warn("no resources found to include in kustomization.yaml",
			slog.String("dir", s.opts.OutputDir))

		return
	}

	idx := s.writeIndex(resources)
	report.Index = &idx
}

func (s *Splitter) writeBucket(b *Bucket) FileResult {
	res := FileResult{
		Filename:  b.Filename,
		Path:      filepath.Join(s.opts.OutputDir, b.Filename),
		Documents: len(b.Documents),
	}

	data, err := output.SerializeDocuments(b.Documents, s.opts.Serialize)
	if err != nil {
		res.Err = err
		s.opts.Logger.Error("serializing bucket failed",
			slog.String("path", res.Path), slog.Any("error", err))

		return res
	}

	if s.opts.Diff {
		res.Changed, res.Err = s.diffFile(res.Path, data)
		return res
	}

	if err := s.opts.NewWriter(res.Path).Write(data); err != nil {
		res.Err = err
		s.opts.Logger.Error("writing bucket failed",
			slog.String("path", res.Path), slog.Any("error", err))

		return res
	}

	s.printf("Written %d resource(s) to %s\n", res.Documents, res.Path)

	return res
}

func (s *Splitter) writeIndex(resources []string) FileResult {
	res := FileResult{
		Filename: routing.KustomizationFile,
		Path:     filepath.Join(s.opts.OutputDir, routing.KustomizationFile),
	}

	data, err := output.SerializeKustomization(output.NewKustomization(resources))
	if err != nil {
		res.Err = err
		s.opts.Logger.Error("serializing kustomization failed",
			slog.String("path", res.Path), slog.Any("error", err))

		return res
	}

	if s.opts.Diff {
		res.Changed, res.Err = s.diffFile(res.Path, data)
		return res
	}

	if err := s.opts.NewWriter(res.Path).Write(data); err != nil {
		res.Err = err
		s.opts.Logger.Error("writing kustomization failed",
			slog.String("path", res.Path), slog.Any("error", err))

		return res
	}

	s.printf("Written %s\n", res.Path)

	return res
}

// diffFile prints the diff between the file at path and data.
func (s *Splitter) diffFile(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // path is built from the output directory
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.opts.Logger.Error("reading existing file failed",
			slog.String("path", path), slog.Any("error", err))

		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	opts := diff.DefaultOptions()
	opts.OldLabel = "a/" + filepath.ToSlash(path)
	opts.NewLabel = "b/" + filepath.ToSlash(path)

	res, err := diff.Compute(string(existing), string(data), opts)
	if err != nil {
		return false, err
	}

	if !res.HasDifferences {
		s.printf("Unchanged %s\n", path)
		return false, nil
	}

	if err := diff.Write(s.opts.Out, res, s.opts.Color); err != nil {
		return true, fmt.Errorf("writing diff for %s: %w", path, err)
	}

	s.printf("%s: %d addition(s), %d deletion(s)\n", path, res.Added, res.Removed)

	return true, nil
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}

	return dir
}

func (s *Splitter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.opts.Out, format, args...)
}

// EnsureDir creates dir and its parents. An existing directory is not an
// error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &DirectoryError{Dir: dir, Err: err}
	}

	return nil
}
