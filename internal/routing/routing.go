// Package routing holds the compiled-in tables that decide which output
// file a manifest document lands in and which files the generated
// kustomization.yaml references.
package routing

import "sort"

// Well-known output filenames.
const (
	// CatchAllFile receives documents whose kind has no route.
	CatchAllFile = "others.yaml"

	// KustomizationFile is the generated Kustomize index.
	KustomizationFile = "kustomization.yaml"
)

// kindToFile maps a resource kind to its output filename. Several kinds
// may share a file.
var kindToFile = map[string]string{
	"ConfigMap":               "configmaps.yaml",
	"Deployment":              "deployments.yaml",
	"HorizontalPodAutoscaler": "hpa.yaml",
	"Namespace":               "namespaces.yaml",
	"ServiceAccount":          "service-accounts.yaml",
	"Service":                 "services.yaml",
	"Telemetry":               "telemetry.yaml",

	// RBAC
	"Role":               "rbac.yaml",
	"ClusterRole":        "rbac.yaml",
	"RoleBinding":        "rbac.yaml",
	"ClusterRoleBinding": "rbac.yaml",

	// Admission webhooks
	"MutatingWebhookConfiguration":   "webhooks.yaml",
	"ValidatingWebhookConfiguration": "webhooks.yaml",

	// Istio security and networking, plus PDBs
	"AuthorizationPolicy":   "policies.yaml",
	"PeerAuthentication":    "policies.yaml",
	"RequestAuthentication": "policies.yaml",
	"Sidecar":               "policies.yaml",
	"EnvoyFilter":           "policies.yaml",
	"WasmPlugin":            "policies.yaml",
	"Gateway":               "policies.yaml",
	"VirtualService":        "policies.yaml",
	"DestinationRule":       "policies.yaml",
	"ServiceEntry":          "policies.yaml",
	"WorkloadEntry":         "policies.yaml",
	"WorkloadGroup":         "policies.yaml",
	"PodDisruptionBudget":   "policies.yaml",

	"IstioOperator":            "istiooperators.yaml",
	"CustomResourceDefinition": "crds.yaml",
}

// indexAllowed lists the files kustomization.yaml may reference.
// crds.yaml and istiooperators.yaml are written but never indexed.
var indexAllowed = map[string]bool{
	"configmaps.yaml":       true,
	"deployments.yaml":      true,
	"hpa.yaml":              true,
	"namespaces.yaml":       true,
	"policies.yaml":         true,
	"rbac.yaml":             true,
	"service-accounts.yaml": true,
	"services.yaml":         true,
	"telemetry.yaml":        true,
	"webhooks.yaml":         true,
	CatchAllFile:            true,
}

// Filename returns the output filename for kind, or CatchAllFile when the
// kind has no route (including the empty kind).
func Filename(kind string) string {
	if f, ok := kindToFile[kind]; ok {
		return f
	}

	return CatchAllFile
}

// IsRouted reports whether kind has an explicit route.
func IsRouted(kind string) bool {
	_, ok := kindToFile[kind]
	return ok
}

// IndexAllowed reports whether filename may appear in kustomization.yaml.
func IndexAllowed(filename string) bool {
	return indexAllowed[filename]
}

// Route is one entry of the routing table.
type Route struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Indexed  bool   `json:"indexed"`
}

// Routes returns a copy of the routing table sorted by kind.
func Routes() []Route {
	routes := make([]Route, 0, len(kindToFile))
	for kind, file := range kindToFile {
		routes = append(routes, Route{Kind: kind, Filename: file, Indexed: IndexAllowed(file)})
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].Kind < routes[j].Kind })

	return routes
}
