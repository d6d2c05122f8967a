// Package version carries the build metadata stamped into the binary.
package version

import (
	"fmt"
	"runtime"
)

// Stamped by the release build via -ldflags -X; defaults cover plain
// `go build` during development.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info bundles the stamped values with the toolchain facts known at runtime.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the version information for this binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the full version line shown by `codedoc version`.
func (i Info) String() string {
	return fmt.Sprintf("codedoc version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
