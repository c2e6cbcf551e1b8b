//go:build windows

package runner

import (
	"errors"
	"os"
)

var errTerminateUnsupported = errors.New("graceful terminate is not supported on windows")

func terminateProcessGroup(int) error {
	return errTerminateUnsupported
}

func killProcessGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
