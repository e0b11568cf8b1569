package version

import (
	"fmt"
	"runtime"
)

// Version information, set at build time:
//
//	go build -ldflags "-X github.com/opensuse-tools/osutil/internal/common/version.Version=v1.0.0 \
//	  -X github.com/opensuse-tools/osutil/internal/common/version.Commit=$(git rev-parse --short HEAD)" ./cmd/osutil
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("osutil version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version string
func Short() string {
	return Version
}

// UserAgent returns the User-Agent sent to remote services
func UserAgent() string {
	return "osutil/" + Version + " (+https://github.com/opensuse-tools/osutil)"
}
