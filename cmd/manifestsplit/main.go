// manifestsplit splits a multi-document Kubernetes manifest stream into
// kind-grouped files plus a generated kustomization.yaml.
package main

import (
	"os"

	"github.com/hupe1980/manifestsplit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
