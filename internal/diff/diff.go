// Package diff renders unified diffs between the files on disk and the
// files a split would write.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultOptions returns sensible default diff options.
func DefaultOptions() Options {
	return Options{
		OldLabel: "existing",
		NewLabel: "proposed",
		Context:  3,
	}
}

// Result holds a unified diff and its line statistics.
type Result struct {
	Unified        string
	HasDifferences bool
	Added          int
	Removed        int
}

// Compute computes a unified diff between two texts.
func Compute(oldText, newText string, opts Options) (*Result, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	r := &Result{Unified: unified, HasDifferences: unified != ""}

	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			r.Added++
		case strings.HasPrefix(line, "-"):
			r.Removed++
		}
	}

	return r, nil
}

// Write writes the unified diff to w, with ANSI colors when color is set.
func Write(w io.Writer, r *Result, color bool) error {
	if !r.HasDifferences {
		return nil
	}

	for _, line := range strings.Split(strings.TrimSuffix(r.Unified, "\n"), "\n") {
		if color {
			line = colorize(line)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func colorize(line string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return bold + line + reset
	case strings.HasPrefix(line, "@@"):
		return cyan + line + reset
	case strings.HasPrefix(line, "-"):
		return red + line + reset
	case strings.HasPrefix(line, "+"):
		return green + line + reset
	default:
		return line
	}
}

// splitLines splits s into lines that keep their trailing newline, as
// difflib expects. An empty text has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.SplitAfter(s, "\n")
}
