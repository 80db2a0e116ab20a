package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `apiVersion: v1
kind: Namespace
metadata:
  name: istio-system
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: istiod
  namespace: istio-system
---
apiVersion: v1
kind: Service
metadata:
  name: istiod
  namespace: istio-system
---
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: gateways.networking.istio.io
`

// executeCommand is a test helper that runs the CLI with the given args and
// empty stdin, capturing both stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	return executeCommandWithInput("", args...)
}

func executeCommandWithInput(input string, args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// ---------------------------------------------------------------------------
// Help output
// ---------------------------------------------------------------------------

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"kinds", "version", "completion"} {
		assert.Contains(t, stdout, sub, "help should mention %q subcommand", sub)
	}

	for _, flag := range []string{
		"--output-dir", "-o", "--indent", "--diff",
		"--config", "--log-level", "--log-format", "--no-color", "--quiet",
	} {
		assert.Contains(t, stdout, flag, "help should mention %q flag", flag)
	}

	assert.Contains(t, stdout, "istio_manifests_output")
}

// ---------------------------------------------------------------------------
// Usage errors → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("--nonexistent")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRootCommand_SilenceErrors(t *testing.T) {
	_, stderr, err := executeCommand("--nonexistent")
	require.Error(t, err)
	assert.Empty(t, stderr, "cobra should not print errors to stderr (SilenceErrors)")
}

func TestRootCommand_RejectsPositionalArgs(t *testing.T) {
	_, _, err := executeCommand("-o", t.TempDir(), "manifest.yaml")
	require.Error(t, err)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--config", "/nonexistent/path.yaml", "-o", t.TempDir())
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand("--log-level", "trace", "-o", t.TempDir())
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, _, err := executeCommand("--log-format", "xml", "-o", t.TempDir())
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRootCommand_InvalidIndent(t *testing.T) {
	_, _, err := executeCommand("--indent", "1", "-o", t.TempDir())
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Splitting
// ---------------------------------------------------------------------------

func TestRootCommand_SplitsStdin(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := executeCommandWithInput(sampleManifest, "-o", dir)
	require.NoError(t, err)

	for _, name := range []string{"namespaces.yaml", "deployments.yaml", "services.yaml", "crds.yaml", "kustomization.yaml"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	assert.Contains(t, stdout, "Output directory:")
	assert.Contains(t, stdout, "Written 1 resource(s) to")

	kustomization := readFile(t, filepath.Join(dir, "kustomization.yaml"))
	assert.Contains(t, kustomization, "apiVersion: kustomize.config.k8s.io/v1beta1")
	assert.Contains(t, kustomization, "kind: Kustomization")
	assert.Contains(t, kustomization, "- deployments.yaml\n- namespaces.yaml\n- services.yaml\n")
	assert.NotContains(t, kustomization, "crds.yaml")
}

func TestRootCommand_OutputDirLongFlag(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommandWithInput("kind: Service\nmetadata:\n  name: a\n", "--output-dir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "services.yaml"))
}

func TestRootCommand_EmptyInputSucceeds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	_, stderr, err := executeCommandWithInput("", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "no YAML input received")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRootCommand_OnlyCRDsSkipsIndex(t *testing.T) {
	dir := t.TempDir()
	input := "apiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: x\n"

	_, stderr, err := executeCommandWithInput(input, "-o", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "crds.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "kustomization.yaml"))
	assert.Contains(t, stderr, "no resources found to include in kustomization.yaml")
}

func TestRootCommand_ParseErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := "kind: Service\n---\nkind: ConfigMap\ndata:\n  key: \"unterminated\n"

	_, _, err := executeCommandWithInput(input, "-o", dir)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "nothing is written when parsing fails")
}

func TestRootCommand_DirectoryErrorIsFatal(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, _, err := executeCommandWithInput(sampleManifest, "-o", filepath.Join(blocker, "out"))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, err.Error(), "could not create output directory")
}

func TestRootCommand_IndentFlag(t *testing.T) {
	dir := t.TempDir()
	input := "kind: Service\nmetadata:\n  name: a\n"

	_, _, err := executeCommandWithInput(input, "-o", dir, "--indent", "4")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "services.yaml")), "\n    name: a")
}

func TestRootCommand_QuietSuppressesProgress(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommandWithInput(sampleManifest, "-o", dir, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.FileExists(t, filepath.Join(dir, "services.yaml"))
}

func TestRootCommand_QuietKeepsDiagnostics(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, err := executeCommandWithInput("", "-o", dir, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no YAML input received")

	crd := "apiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: x\n"

	_, stderr, err = executeCommandWithInput(crd, "-o", dir, "-q")
	require.NoError(t, err)
	assert.Contains(t, stderr, "no resources found to include in kustomization.yaml")
}

func TestRootCommand_DiffWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := executeCommandWithInput(sampleManifest, "-o", dir, "--diff", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "+kind: Service")
	assert.NoDirExists(t, dir)
}

func TestRootCommand_DiffUnchangedAfterSplit(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommandWithInput(sampleManifest, "-o", dir)
	require.NoError(t, err)

	stdout, _, err := executeCommandWithInput(sampleManifest, "-o", dir, "--diff")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Unchanged")
	assert.NotContains(t, stdout, "@@")
}

func TestRootCommand_OutputDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MANIFESTSPLIT_OUTPUT_DIR", dir)

	_, _, err := executeCommandWithInput("kind: ConfigMap\nmetadata:\n  name: a\n")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "configmaps.yaml"))
}

// ---------------------------------------------------------------------------
// run / Execute
// ---------------------------------------------------------------------------

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  int
	}{
		{"success", sampleManifest, nil, 0},
		{"empty input", "", nil, 0},
		{"parse error", "a: [1, 2\n", nil, 1},
		{"unknown flag", "", []string{"--bogus"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			cmd.SetIn(strings.NewReader(tt.input))
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs(append([]string{"-o", t.TempDir()}, tt.args...))

			assert.Equal(t, tt.want, run(cmd, new(bytes.Buffer)))
		})
	}
}

func TestRun_PrintsParseErrorPosition(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("kind: Service\nmetadata:\n  name: a\n  name: b\n"))
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-o", t.TempDir()})

	stderr := new(bytes.Buffer)
	code := run(cmd, stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: ")
	assert.Contains(t, stderr.String(), "Error found near line 4, column 3")
}

func TestPrintError_LineOnly(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader("kind: ConfigMap\ndata:\n  key: \"unterminated\n"))
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-o", t.TempDir()})

	stderr := new(bytes.Buffer)
	require.Equal(t, 1, run(cmd, stderr))
	assert.Contains(t, stderr.String(), "Error found near line")
}

func TestPrintError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, assert.AnError)

	assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", buf.String())
}

// ---------------------------------------------------------------------------
// ExitError
// ---------------------------------------------------------------------------

func TestExitError_ErrorWithMessage(t *testing.T) {
	err := &ExitError{Code: 1, Err: assert.AnError}
	assert.Contains(t, err.Error(), assert.AnError.Error())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExitError_ErrorWithoutMessage(t *testing.T) {
	err := &ExitError{Code: 42}
	assert.Equal(t, "exit code 42", err.Error())
	assert.Nil(t, err.Unwrap())
}
