// Package version reports what the earthscan binary was built from.
package version

import (
	"runtime"
	"runtime/debug"
)

// Overridden at link time with -ldflags "-X ...version.version=v1.2.3".
var version = "dev"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Version returns the current version string
func Version() string {
	return version
}

// GetInfo returns version details for machine-readable output.
func GetInfo() Info {
	return Info{
		Version:   version,
		Commit:    commit(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// commit returns the VCS revision stamped by the Go toolchain, shortened
// to twelve characters and suffixed with "-dirty" for modified trees.
func commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
