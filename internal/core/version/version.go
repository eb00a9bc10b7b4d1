// Package version provides information about the build version of the tool.
package version

// BuildInfo holds version information about the tool build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'apmarchive/internal/core/version.version=v0.1.0'
	// -X 'apmarchive/internal/core/version.commit=abcd' -X 'apmarchive/internal/core/version.date=2020-12-08'"
	return BuildInfo{
		Service: "apm-archive",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders the build info for --version
func (b BuildInfo) String() string {
	return b.Version + " (commit " + b.Commit + ", built " + b.Date + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
