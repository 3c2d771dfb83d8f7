package binqc

import "fmt"

// Overridden at build time, e.g. with
// -ldflags "-X github.com/guigolab/binqc.version=0.2.0 -X github.com/guigolab/binqc.commit=abc1234"
var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

// Version returns the version of binqc.
func Version() string {
	return version
}

// BuildInfo returns the version with the commit and the build date when known.
func BuildInfo() string {
	return buildVersion(version, commit, date)
}

func buildVersion(version, commit, date string) string {
	var result = fmt.Sprintf("version: %s", version)
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	return result
}
