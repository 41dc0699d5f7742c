package cli

import (
	"fmt"
	"runtime"
)

// Version is set at build time with -ldflags "-X mooltipage/internal/cli.Version=...".
var Version = "dev"

func HandleVersion() {
	fmt.Printf("mooltipage %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
