//go:build !windows

package sysinfo

import (
	"fmt"
	"runtime"
)

// Collect reports the Go runtime's view of the host on platforms without WMI.
func Collect() (Facts, error) {
	return Facts{
		Caption:      fmt.Sprintf("%s (unsupported host)", runtime.GOOS),
		Version:      "unknown",
		Architecture: runtime.GOARCH,
	}, nil
}
