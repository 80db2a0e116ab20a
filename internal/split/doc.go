// Package split classifies manifest documents into kind-grouped buckets
// and writes each bucket, plus a kustomization.yaml index, to an output
// directory.
//
// Fatal conditions (the output directory cannot be created, the input is
// not well-formed YAML) are returned as errors. Per-file write failures are
// not: they are recorded on the [Report] and logged, and the remaining
// files are still written.
package split
