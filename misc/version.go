// Package misc keeps build time information about the program.
package misc

import (
	"path/filepath"
	"runtime/debug"
	"strings"
)

// set by linker: -ldflags "-X trexport/misc.version=... -X trexport/misc.gitHash=..."
var (
	appName = "trexport"
	version = "dev"
	gitHash = ""
)

// GetAppName returns name of the program.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git revision program was built from, either injected
// by linker or taken from embedded VCS build information.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// GetUserAgent returns value for User-Agent header of outgoing requests.
func GetUserAgent() string {
	return appName + "/" + strings.TrimPrefix(filepath.Base(version), "v")
}
