//go:build !linux && !windows

package runner

import (
	"syscall"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

func GetSysProcAttr(_ string, _ lib.ProcessConfig) (*SysProcAttr, error) {
	return &SysProcAttr{
		Raw: &syscall.SysProcAttr{
			// New process group to manage children as a unit
			Setpgid: true,
		}}, nil
}

func KillCgroup(string) (bool, error) {
	return false, nil
}

func CleanupCgroup(string) error {
	return nil
}
