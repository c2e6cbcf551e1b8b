//go:build !windows

package runner

import (
	"errors"

	"golang.org/x/sys/unix"
)

// terminateProcessGroup asks the whole group to exit.
func terminateProcessGroup(pid int) error {
	return signalGroup(pid, unix.SIGTERM)
}

// killProcessGroup kills the whole group (negative pid addresses the group).
func killProcessGroup(pid int) error {
	return signalGroup(pid, unix.SIGKILL)
}

func signalGroup(pid int, sig unix.Signal) error {
	err := unix.Kill(-pid, sig)
	if errors.Is(err, unix.ESRCH) {
		// Group leader changed its group; address the process itself.
		err = unix.Kill(pid, sig)
	}
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
