package app

import (
	"fmt"
	"io"
	"runtime"
)

// Version is the application version. It is overridden at build time via
// -ldflags "-X github.com/streamml/aleval/internal/app.Version=v1.2.3".
var Version = "dev"

// HasVersionFlag reports whether the version flag appears anywhere in the
// arguments, so the version can be printed without full config parsing.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "aleval %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
