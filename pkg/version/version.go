package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information, overridden at build time with -ldflags
var (
	// Version in string format
	Version = "0.1.0"
	// GitCommit is the git commit that was compiled
	GitCommit = ""
	// BuildDate is the date of the build
	BuildDate = ""
	// GoVersion is the version of go used to compile
	GoVersion = runtime.Version()
	// Platform is the operating system and architecture combination
	Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	// AppName is the name of the application
	AppName = "httplite"
	// Description of the application
	Description = "A minimal embeddable HTTP server with prefix routing"
)

// GetVersionInfo returns a formatted version string with additional build information
func GetVersionInfo() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s version %s", AppName, Version)
	if GitCommit != "" {
		fmt.Fprintf(&sb, "\nGit commit: %s", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "\nBuild date: %s", BuildDate)
	}
	fmt.Fprintf(&sb, "\nGo version: %s", GoVersion)
	fmt.Fprintf(&sb, "\nPlatform: %s", Platform)

	return sb.String()
}
