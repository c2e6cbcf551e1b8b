//go:build linux

package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

const (
	cgroupRoot = "/sys/fs/cgroup/server-launcher"

	defaultCPUWeight = 100
	defaultIOWeight  = 100
)

var (
	cgroupInitOnce sync.Once
	cgroupInitErr  error
)

// initCgroups enables the cpu and io controllers below the launcher root.
// Only the first call does any work. As non-root, this is a no-op.
func initCgroups() error {
	cgroupInitOnce.Do(func() {
		cgroupInitErr = initCgroupsImpl()
	})
	return cgroupInitErr
}

func initCgroupsImpl() error {
	if os.Geteuid() != 0 {
		return nil
	}

	if err := os.MkdirAll(cgroupRoot, 0755); err != nil {
		return err
	}

	// Determine which controllers are available and already enabled on this cgroup
	available, err := readControllerSet(filepath.Join(cgroupRoot, "cgroup.controllers"))
	if err != nil {
		return err
	}
	enabled, err := readControllerSet(filepath.Join(cgroupRoot, "cgroup.subtree_control"))
	if err != nil {
		return err
	}

	desired := []string{"cpu", "io"}
	var toAdd []string
	for _, ctrl := range desired {
		if available[ctrl] && !enabled[ctrl] {
			toAdd = append(toAdd, "+"+ctrl)
		}
	}
	if len(toAdd) > 0 {
		if err := writeString(filepath.Join(cgroupRoot, "cgroup.subtree_control"), strings.Join(toAdd, " ")); err != nil {
			return err
		}
	}
	return nil
}

func readControllerSet(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fields := strings.Fields(string(data))
	for _, f := range fields {
		f = strings.TrimPrefix(f, "+")
		set[f] = true
	}
	return set, nil
}

// GetSysProcAttr puts the process into its own process group and, as root,
// into a dedicated cgroup leaf named after the config id so the whole tree
// can be killed at once.
func GetSysProcAttr(id string, _ lib.ProcessConfig) (*SysProcAttr, error) {
	if os.Geteuid() != 0 {
		return &SysProcAttr{
			Raw: &syscall.SysProcAttr{
				Setpgid: true,
			},
		}, nil
	}

	if err := initCgroups(); err != nil {
		logger.Printf("cgroup init failed, falling back to process groups: %v", err)
		return &SysProcAttr{Raw: &syscall.SysProcAttr{Setpgid: true}}, nil
	}

	cgPath, err := setupCgroupFor(id)
	if err != nil {
		return nil, err
	}

	cGroupFile, err := os.Open(cgPath)
	if err != nil {
		return nil, err
	}

	return &SysProcAttr{
		File: cGroupFile,
		Raw: &syscall.SysProcAttr{
			Setpgid:     true,
			UseCgroupFD: true,
			CgroupFD:    int(cGroupFile.Fd()),
		},
	}, nil
}

// KillCgroup kills every process of the id's cgroup. It reports false when
// no cgroup is in use.
func KillCgroup(id string) (bool, error) {
	if os.Geteuid() != 0 {
		return false, nil
	}
	cgDir, err := cgroupLeaf(id)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(cgDir); err != nil {
		return false, nil
	}
	err = writeString(filepath.Join(cgDir, "cgroup.kill"), "1")

	return err == nil, err
}

func CleanupCgroup(id string) error {
	if os.Geteuid() != 0 {
		return nil
	}
	cgDir, err := cgroupLeaf(id)
	if err != nil {
		return err
	}
	return os.Remove(cgDir)
}

// setupCgroupFor creates the leaf for one config. Heap limits of Java
// servers are left to -Xmx, so no memory controller files are written.
func setupCgroupFor(id string) (string, error) {
	processRoot, err := cgroupLeaf(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(processRoot, 0755); err != nil {
		return "", err
	}

	if controllerEnabled(cgroupRoot, "cpu") {
		if err := writeString(filepath.Join(processRoot, "cpu.weight"), fmt.Sprint(defaultCPUWeight)); err != nil {
			return "", err
		}
	}
	if controllerEnabled(cgroupRoot, "io") {
		if err := writeString(filepath.Join(processRoot, "io.weight"), fmt.Sprint(defaultIOWeight)); err != nil {
			return "", err
		}
	}

	return processRoot, nil
}

// cgroupLeaf returns the leaf directory of id directly below cgroupRoot.
func cgroupLeaf(id string) (string, error) {
	if id == "" || id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: id %q is not a valid cgroup name", lib.ErrConfigInvalid, id)
	}
	return filepath.Join(cgroupRoot, id), nil
}

func controllerEnabled(cgPath, controller string) bool {
	enabled, err := readControllerSet(filepath.Join(cgPath, "cgroup.subtree_control"))
	if err != nil {
		return false
	}
	return enabled[controller]
}

func writeString(path, val string) error {
	return os.WriteFile(path, []byte(val), 0644)
}
