// Package parser decodes multi-document YAML manifest streams into
// k8s.Document values.
package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/manifestsplit/internal/k8s"
	"github.com/hupe1980/manifestsplit/internal/yamlutil"
)

// Parser parses a manifest stream into documents.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]*k8s.Document, error)
}

// compile-time interface conformance check.
var _ Parser = (*DefaultParser)(nil)

// DefaultParser is the default implementation of the Parser interface.
type DefaultParser struct{}

// NewParser creates a new DefaultParser.
func NewParser() *DefaultParser {
	return &DefaultParser{}
}

// Parse reads r to EOF and returns one Document per YAML document in
// stream order. Null documents are returned too; callers decide whether to
// skip them. Malformed input yields an error wrapping *yamlutil.ParseError;
// a cancelled ctx stops decoding at the next document and returns ctx.Err().
func (p *DefaultParser) Parse(ctx context.Context, r io.Reader) ([]*k8s.Document, error) {
	nodes, err := yamlutil.DecodeStream(ctx, r)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if err != nil {
		return nil, fmt.Errorf("parsing YAML input: %w", err)
	}

	docs := make([]*k8s.Document, 0, len(nodes))
	for i, n := range nodes {
		docs = append(docs, k8s.NewDocument(i, n))
	}

	return docs, nil
}
