package split

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/manifestsplit/internal/k8s"
	"github.com/hupe1980/manifestsplit/internal/k8s/parser"
	"github.com/hupe1980/manifestsplit/internal/output"
)

func parseDocs(t *testing.T, data string) []*k8s.Document {
	t.Helper()

	docs, err := parser.NewParser().Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)

	return docs
}

// testSplitter returns a splitter writing into dir with captured progress
// and log output.
func testSplitter(dir string, mutate ...func(*Options)) (*Splitter, *bytes.Buffer, *bytes.Buffer) {
	out := new(bytes.Buffer)
	logs := new(bytes.Buffer)

	opts := Options{
		OutputDir: dir,
		Logger:    slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Out:       out,
	}

	for _, m := range mutate {
		m(&opts)
	}

	return New(opts), out, logs
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) error { return errors.New("disk full") }

// failFor returns a factory that fails for paths ending in name and writes
// everything else to disk.
func failFor(name string) output.WriterFactory {
	files := output.FileWriterFactory()

	return func(path string) output.Writer {
		if strings.HasSuffix(path, name) {
			return failingWriter{}
		}

		return files(path)
	}
}
