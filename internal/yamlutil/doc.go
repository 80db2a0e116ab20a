// Package yamlutil provides the YAML stream codec used by manifestsplit.
//
// Documents are decoded into [yaml.Node] trees rather than Go maps so that
// comments, key order and scalar quoting survive a decode/encode round trip.
package yamlutil
