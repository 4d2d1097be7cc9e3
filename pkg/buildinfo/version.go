// Package buildinfo reports which cmaptree build is running.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/cmaptree/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/cmaptree/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/cmaptree/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds without ldflags, such as go install, fall back to the module
// version and VCS stamps the toolchain embeds in the binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Unset values.
const (
	devVersion    = "dev"
	unknownCommit = "none"
	unknownDate   = "unknown"
)

var (
	// Version is the semantic version (e.g., "v1.2.3"). It also scopes
	// cache keys, so outlines cached by another release are never reused.
	Version = devVersion

	// Commit is the git commit SHA.
	Commit = unknownCommit

	// Date is the build timestamp.
	Date = unknownDate
)

func init() {
	fill(debug.ReadBuildInfo)
}

// fill replaces unset variables with what read reports.
func fill(read func() (*debug.BuildInfo, bool)) {
	info, ok := read()
	if !ok || info == nil {
		return
	}
	if v := info.Main.Version; Version == devVersion && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == unknownCommit:
			Commit = s.Value
		case s.Key == "vcs.time" && Date == unknownDate:
			Date = s.Value
		}
	}
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, shortCommit(Commit), Date)
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
