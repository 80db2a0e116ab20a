package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/manifestsplit/internal/k8s"
	"github.com/hupe1980/manifestsplit/internal/yamlutil"
)

// SerializeOptions configures the YAML serializer.
type SerializeOptions struct {
	// Indent is the number of spaces per indentation level (default: 2).
	Indent int
}

// DefaultSerializeOptions returns sensible defaults.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{
		Indent: 2,
	}
}

// SerializeDocuments renders docs as one multi-document YAML stream in the
// given order. Null documents are rejected; they never belong in a bucket.
func SerializeDocuments(docs []*k8s.Document, opts SerializeOptions) ([]byte, error) {
	if opts.Indent == 0 {
		opts.Indent = 2
	}

	nodes := make([]*yaml.Node, 0, len(docs))

	for _, d := range docs {
		if d == nil || d.IsNull() {
			return nil, fmt.Errorf("serializing YAML: null document in output")
		}

		nodes = append(nodes, d.Node)
	}

	var buf bytes.Buffer
	if err := yamlutil.EncodeStream(&buf, nodes, opts.Indent); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return buf.Bytes(), nil
}
