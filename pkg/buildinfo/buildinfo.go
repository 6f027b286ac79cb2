// Package buildinfo exposes version information stamped at build time.
package buildinfo

import (
	"runtime"
)

// These vars are set at build time via ldflags:
// -X github.com/pressiona/radar-social/pkg/buildinfo.Version=v0.3.1
// -X github.com/pressiona/radar-social/pkg/buildinfo.Commit=1a2b3c4
// -X github.com/pressiona/radar-social/pkg/buildinfo.BuildTime=2026-08-12T09:00:00Z
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info holds build information for the tool.
type Info struct {
	ServiceName string `json:"service_name"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"build_time"`
	GoVersion   string `json:"go_version"`
}

// Get returns build info under the given name.
func Get(serviceName string) Info {
	return Info{
		ServiceName: serviceName,
		Version:     Version,
		Commit:      Commit,
		BuildTime:   BuildTime,
		GoVersion:   runtime.Version(),
	}
}

// String returns a human-readable one-liner like "v0.3.1 (1a2b3c4, 2026-08-12T09:00:00Z)"
func String() string {
	return Version + " (" + Commit + ", " + BuildTime + ")"
}
