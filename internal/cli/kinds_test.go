package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/manifestsplit/internal/routing"
)

func TestKindsCommand_Table(t *testing.T) {
	stdout, _, err := executeCommand("kinds")
	require.NoError(t, err)

	for _, want := range []string{"Deployment", "deployments.yaml", "CustomResourceDefinition", "crds.yaml", "policies.yaml"} {
		assert.Contains(t, stdout, want)
	}
}

func TestKindsCommand_JSON(t *testing.T) {
	stdout, _, err := executeCommand("kinds", "--format", "json")
	require.NoError(t, err)

	var routes []routing.Route
	require.NoError(t, json.Unmarshal([]byte(stdout), &routes))
	assert.Equal(t, routing.Routes(), routes)

	for _, r := range routes {
		switch r.Kind {
		case "IstioOperator", "CustomResourceDefinition":
			assert.False(t, r.Indexed, r.Kind)
		case "Service", "Gateway":
			assert.True(t, r.Indexed, r.Kind)
		}
	}
}

func TestKindsCommand_YAML(t *testing.T) {
	stdout, _, err := executeCommand("kinds", "--format", "yaml")
	require.NoError(t, err)

	var routes []routing.Route
	require.NoError(t, sigsyaml.Unmarshal([]byte(stdout), &routes))
	assert.Equal(t, routing.Routes(), routes)
}

func TestKindsCommand_UnknownFormat(t *testing.T) {
	_, _, err := executeCommand("kinds", "--format", "xml")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestKindsCommand_IgnoresInvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--log-level", "trace", "kinds")
	require.NoError(t, err)
}

func TestKindsCommand_NoArgs(t *testing.T) {
	_, _, err := executeCommand("kinds", "extra")
	require.Error(t, err)
}

func TestWriteRoutes_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRoutes(&buf, []routing.Route{{Kind: "Widget", Filename: "widgets.yaml", Indexed: true}}, "table"))

	assert.Contains(t, buf.String(), "Widget")
	assert.Contains(t, buf.String(), "widgets.yaml")
	assert.Contains(t, buf.String(), "true")
}
