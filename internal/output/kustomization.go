package output

import (
	"fmt"
	"sort"

	sigsyaml "sigs.k8s.io/yaml"
)

// Kustomize index identifiers.
const (
	KustomizeAPIVersion = "kustomize.config.k8s.io/v1beta1"
	KustomizeKind       = "Kustomization"
)

// Kustomization is the generated kustomization.yaml.
type Kustomization struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Resources  []string `json:"resources"`
}

// NewKustomization returns an index referencing resources, sorted and with
// duplicates removed.
func NewKustomization(resources []string) *Kustomization {
	seen := make(map[string]bool, len(resources))
	res := make([]string, 0, len(resources))

	for _, r := range resources {
		if !seen[r] {
			seen[r] = true
			res = append(res, r)
		}
	}

	sort.Strings(res)

	return &Kustomization{
		APIVersion: KustomizeAPIVersion,
		Kind:       KustomizeKind,
		Resources:  res,
	}
}

// SerializeKustomization renders k in the conventional kustomize layout:
// two-space mappings and block sequences at offset zero.
func SerializeKustomization(k *Kustomization) ([]byte, error) {
	data, err := sigsyaml.Marshal(k)
	if err != nil {
		return nil, fmt.Errorf("serializing kustomization: %w", err)
	}

	return data, nil
}
