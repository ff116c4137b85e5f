//go:build windows

package command

import (
	"os/exec"
	"syscall"
)

// hideConsoleWindow keeps child processes from flashing a console window.
func hideConsoleWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow: true,
	}
}
