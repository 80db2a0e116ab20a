// Package k8s provides the Kubernetes document model for parsed manifests.
package k8s

import (
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/hupe1980/manifestsplit/internal/yamlutil"
)

// Document is one YAML document of a manifest stream. The node is kept
// verbatim so the document can be re-emitted with its comments and
// formatting intact.
type Document struct {
	// Index is the 0-based position of the document in the input stream.
	Index int

	// Node is the decoded document node.
	Node *yaml.Node

	// GVK is the GroupVersionKind read from apiVersion and kind. Kind is
	// empty when the document has no string kind field.
	GVK schema.GroupVersionKind

	// Name is metadata.name.
	Name string

	// Namespace is metadata.namespace (may be empty for cluster-scoped).
	Namespace string
}

// NewDocument builds a Document from a decoded document node. Fields that
// are missing or not strings are left empty; non-mapping documents are
// valid and simply carry no kind.
func NewDocument(index int, node *yaml.Node) *Document {
	d := &Document{Index: index, Node: node}

	if d.IsNull() {
		return d
	}

	root := yamlutil.Root(node)

	apiVersion, _ := yamlutil.StringValue(yamlutil.Lookup(root, "apiVersion"))
	kind, _ := yamlutil.StringValue(yamlutil.Lookup(root, "kind"))
	d.GVK = schema.FromAPIVersionAndKind(apiVersion, kind)

	meta := yamlutil.Lookup(root, "metadata")
	d.Name, _ = yamlutil.StringValue(yamlutil.Lookup(meta, "name"))
	d.Namespace, _ = yamlutil.StringValue(yamlutil.Lookup(meta, "namespace"))

	return d
}

// IsNull reports whether the document is empty or an explicit null.
func (d *Document) IsNull() bool {
	return yamlutil.IsNull(d.Node)
}

// Kind returns the resource kind (e.g. "Deployment"), or "".
func (d *Document) Kind() string {
	return d.GVK.Kind
}

// ID identifies the object by group, kind, namespace and name, e.g.
// "Deployment.apps/istio-system/istiod". The version is not part of the
// identity. Documents without a kind or a name have no ID.
func (d *Document) ID() string {
	if d.GVK.Kind == "" || d.Name == "" {
		return ""
	}

	id := d.GVK.GroupKind().String()
	if d.Namespace != "" {
		id += "/" + d.Namespace
	}

	return id + "/" + d.Name
}

// QualifiedName returns "kind/name" for display purposes.
func (d *Document) QualifiedName() string {
	kind := d.GVK.Kind
	if kind == "" {
		kind = "<none>"
	}

	if d.Name == "" {
		return kind
	}

	return kind + "/" + d.Name
}
