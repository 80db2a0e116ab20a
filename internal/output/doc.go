// Package output provides serialization and file writers for split
// manifests.
//
// The package is organized around three concerns:
//
//   - Serialization (serializer.go): multi-document YAML streams that keep
//     each document's comments and quoting.
//
//   - Kustomize index (kustomization.go): the generated kustomization.yaml.
//
//   - Writers (writer.go): pluggable output destinations via the [Writer]
//     interface and the [WriterFactory] used by the splitter.
package output
