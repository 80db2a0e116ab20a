package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer is the interface for serialized output destinations.
type Writer interface {
	// Write sends serialized bytes to the output destination.
	Write(data []byte) error
}

// WriterFactory creates a Writer for the given output path.
type WriterFactory func(path string) Writer

// filePerm is the mode of every written file.
const filePerm os.FileMode = 0o644

// FileWriter writes serialized output to a file, creating parent
// directories as needed. Existing files are replaced.
type FileWriter struct {
	path   string
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// NewFileWriter creates a writer that writes to the specified file path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// FileWriterFactory returns a WriterFactory producing FileWriters that
// share opts.
func FileWriterFactory(opts ...FileWriterOption) WriterFactory {
	return func(path string) Writer {
		return NewFileWriter(path, opts...)
	}
}

// Write creates parent directories and replaces the file with data. The
// bytes go to a temporary file in the same directory first, so the target
// is either the old content or the complete new content.
func (fw *FileWriter) Write(data []byte) error {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if info, err := os.Stat(fw.path); err == nil && info.Mode().IsRegular() {
		fw.logger.Debug("overwriting existing file", slog.String("path", fw.path))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", fw.path, err)
	}

	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err := os.Rename(tmpPath, fw.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing file %s: %w", fw.path, err)
	}

	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Chmod(filePerm); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
