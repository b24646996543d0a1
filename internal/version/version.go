// Package version carries build-time metadata injected via -ldflags.
package version

var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
