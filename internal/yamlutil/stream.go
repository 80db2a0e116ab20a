package yamlutil

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const mergeKey = "<<"

// DecodeStream reads r to EOF and decodes every YAML document it contains.
// The returned nodes are document nodes in stream order; null documents
// (for example from a trailing "---") are included and can be detected
// with IsNull. An empty stream yields no nodes and no error. ctx is checked
// before each document, so a cancelled context stops reading at the next
// document boundary.
func DecodeStream(ctx context.Context, r io.Reader) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(r)

	var docs []*yaml.Node

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var n yaml.Node

		err := dec.Decode(&n)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, newParseError(err)
		}

		if err := checkDuplicateKeys(&n); err != nil {
			return nil, err
		}

		docs = append(docs, &n)
	}

	return docs, nil
}

// IsNull reports whether n is an empty or null document.
func IsNull(n *yaml.Node) bool {
	if n == nil || n.Kind == 0 {
		return true
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return true
		}

		return IsNull(n.Content[0])
	case yaml.ScalarNode:
		return n.ShortTag() == "!!null"
	default:
		return false
	}
}

// Root returns the content node of a document node, or n itself when n is
// not a document node.
func Root(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}

	return n
}

// Lookup returns the value node stored under key in mapping m, or nil.
func Lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := m.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}

// StringValue returns the value of n when n is a plain string scalar.
func StringValue(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", false
	}

	return n.Value, true
}

// EncodeStream writes nodes to w as a multi-document YAML stream using
// indent spaces per mapping level.
func EncodeStream(w io.Writer, nodes []*yaml.Node, indent int) (err error) {
	// The encoder only opens the stream on the first Encode; closing an
	// unopened encoder fails.
	if len(nodes) == 0 {
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)

	defer func() {
		if cerr := enc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("flushing YAML stream: %w", cerr)
		}
	}()

	for i, n := range nodes {
		if err := enc.Encode(n); err != nil {
			return fmt.Errorf("encoding document %d: %w", i, err)
		}
	}

	return nil
}

// checkDuplicateKeys walks n and rejects mappings that define the same key
// twice.
func checkDuplicateKeys(n *yaml.Node) error {
	if n == nil {
		return nil
	}

	if n.Kind == yaml.MappingNode {
		seen := make(map[string]*yaml.Node, len(n.Content)/2)

		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode || k.Value == mergeKey {
				continue
			}

			id := k.ShortTag() + ":" + k.Value
			if first, ok := seen[id]; ok {
				return &ParseError{
					Line:   k.Line,
					Column: k.Column,
					Msg: fmt.Sprintf("duplicate key %q (first defined at line %d, column %d)",
						k.Value, first.Line, first.Column),
				}
			}

			seen[id] = k
		}
	}

	// Aliases are not followed; their anchors are visited where defined.
	for _, c := range n.Content {
		if err := checkDuplicateKeys(c); err != nil {
			return err
		}
	}

	return nil
}
