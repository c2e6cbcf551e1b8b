//go:build !windows

package runner

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// processAlive treats zombies as dead since nothing may reap reparented
// children inside a container.
func processAlive(pid int) bool {
	if err := unix.Kill(pid, 0); err != nil {
		return false
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return true
	}
	// The state follows the parenthesised command name.
	fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
	return len(fields) == 0 || fields[0] != "Z"
}
