//go:build windows

package runner

import (
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// GetSysProcAttr detaches the child into its own process group and hides its
// console window when the config asks for it.
func GetSysProcAttr(_ string, cfg lib.ProcessConfig) (*SysProcAttr, error) {
	attr := &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
	if cfg.HideConsoleWindow {
		attr.HideWindow = true
		attr.CreationFlags |= windows.CREATE_NO_WINDOW
	}
	return &SysProcAttr{Raw: attr}, nil
}

func KillCgroup(string) (bool, error) {
	return false, nil
}

func CleanupCgroup(string) error {
	return nil
}
