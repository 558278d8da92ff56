package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/dendrascience/pbix-converter/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Package is the name reported alongside the version.
const Package = "pbix-converter"

// Info contains version information
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Package string `json:"package"`
}

// GetInfo resolves version information, preferring values injected at link
// time over the module build info.
func GetInfo() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, Package: Package}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		if info.Version == "dev" {
			info.Version = "development"
		}
		return info
	}
	if info.Version == "dev" || info.Version == "" {
		info.Version = "development"
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && (info.Commit == "unknown" || info.Commit == ""):
			info.Commit = s.Value
		case s.Key == "vcs.time" && (info.Date == "unknown" || info.Date == ""):
			info.Date = s.Value
		}
	}
	return info
}

// GetVersion returns the version string.
func GetVersion() string {
	return GetInfo().Version
}

// GetFullVersion returns the version with short commit and build date when known.
func GetFullVersion() string {
	return GetInfo().String()
}

func (i Info) String() string {
	if i.Commit == "unknown" || len(i.Commit) <= 7 {
		return i.Version
	}
	if i.Date == "unknown" {
		return fmt.Sprintf("%s (%s)", i.Version, i.Commit[:7])
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, i.Commit[:7], i.Date)
}

// Fprint writes a multi-line version report for appName to w.
func Fprint(w io.Writer, appName string) {
	info := GetInfo()
	fmt.Fprintf(w, "%s version %s\n", appName, info)
	fmt.Fprintf(w, "Package: %s\n", info.Package)
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.Date)
}
