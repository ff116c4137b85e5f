// pkg/blocking/blocking.go - detection of processes that interfere with packaging.

package blocking

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/windowsadmins/wingetpack/pkg/logging"
)

// watchedProcesses are executables whose concurrent runs can contend for the
// same temp folders and package sources as a packaging job.
var watchedProcesses = map[string]bool{
	"intunewinapputil.exe": true,
	"winget.exe":           true,
}

// RunningPackagingTools returns the names of watched processes currently
// running. Callers use this as a warning signal only; a packaging job is
// never refused because of it.
func RunningPackagingTools() []string {
	procs, err := process.Processes()
	if err != nil {
		logging.Debug("Process enumeration failed", "error", err)
		return nil
	}

	seen := make(map[string]bool)
	var running []string
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		lower := strings.ToLower(name)
		if watchedProcesses[lower] && !seen[lower] {
			seen[lower] = true
			running = append(running, name)
		}
	}
	return running
}
