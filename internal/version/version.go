// Package version provides build-time metadata for the manifestsplit binary.
// Version, GitCommit, and BuildDate are injected at compile time via -ldflags;
// binaries built with plain "go install" fall back to the embedded build info.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"slices"
)

// Build-time values injected via -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// trackedModules are the dependencies whose versions are reported. They
// decide how manifests are parsed and written.
var trackedModules = []string{
	"gopkg.in/yaml.v3",
	"sigs.k8s.io/yaml",
}

// Info holds the build metadata for the binary.
type Info struct {
	Version   string            `json:"version"`
	GitCommit string            `json:"gitCommit"`
	BuildDate string            `json:"buildDate"`
	GoVersion string            `json:"goVersion"`
	Platform  string            `json:"platform"`
	Modules   map[string]string `json:"modules,omitempty"`
}

// GetInfo returns the current build information.
func GetInfo() Info {
	info := Info{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(&info, bi)
	}

	info.GitCommit = shortCommit(info.GitCommit)

	return info
}

// applyBuildInfo fills values that were not injected via -ldflags from the
// module build info and records the tracked dependency versions.
func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "none" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}

	for _, mod := range bi.Deps {
		if !slices.Contains(trackedModules, mod.Path) {
			continue
		}

		if info.Modules == nil {
			info.Modules = make(map[string]string, len(trackedModules))
		}

		info.Modules[mod.Path] = mod.Version
	}
}

// String returns a human-readable single-line version string.
func (i Info) String() string {
	return fmt.Sprintf("manifestsplit %s (commit: %s, built: %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}
