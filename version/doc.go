// Package version reports build metadata for pbix-converter.
//
// Version, Commit, and Date can be injected with -ldflags at build time.
// Anything left at its default is filled from debug.ReadBuildInfo, which
// knows the module version for `go install` builds and the VCS revision
// for builds from a checkout.
package version
