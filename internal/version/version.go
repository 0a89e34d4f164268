// Package version reports build metadata for the pokedash binary together
// with the dataset layout the build understands.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Set via -ldflags "-X github.com/hupe1980/pokedash/internal/version.version=...".
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info holds the build metadata for the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`

	// Generations lists the generation labels the loader can assign.
	Generations []string `json:"generations"`

	// Stats lists the numeric columns charts and filters operate on.
	Stats []string `json:"stats"`
}

// GetInfo returns the current build information. Binaries built with
// "go install" carry no ldflags; their module version and VCS revision
// are taken from the embedded build info instead.
func GetInfo() Info {
	info := Info{
		Version:     version,
		GitCommit:   gitCommit,
		BuildDate:   buildDate,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		Generations: pokedex.Generations,
	}

	for _, s := range pokedex.Stats {
		info.Stats = append(info.Stats, s.String())
	}

	if bi, ok := readBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}

	info.GitCommit = shortCommit(info.GitCommit)

	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
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
}

// String returns a human-readable single-line version string.
func (i Info) String() string {
	return fmt.Sprintf("pokedash %s (commit: %s, built: %s, %s %s, generations %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform, generationSpan(i.Generations))
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

func generationSpan(gens []string) string {
	switch len(gens) {
	case 0:
		return "none"
	case 1:
		return gens[0]
	default:
		return strings.Join([]string{gens[0], gens[len(gens)-1]}, "-")
	}
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}
