package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// JavaArgs builds `-Xms{min}M -Xmx{max}M {jvm args} -jar {jar} {extra args} [nogui]`.
// nogui is appended unless the GUI window is kept or the command line already
// carries it.
func JavaArgs(l lib.JavaLaunch, extraArgs []string) []string {
	args := make([]string, 0, 4+len(l.JVMArgs)+len(extraArgs)+1)
	args = append(args,
		fmt.Sprintf("-Xms%dM", l.MinRAMMB),
		fmt.Sprintf("-Xmx%dM", l.MaxRAMMB),
	)
	args = append(args, l.JVMArgs...)
	args = append(args, "-jar", l.JarPath)
	args = append(args, extraArgs...)
	if !l.KeepGUIWindow && !slices.Contains(args, "nogui") {
		args = append(args, "nogui")
	}
	return args
}

// buildCommand validates the config against the filesystem and prepares the
// command. The returned error wraps lib.ErrConfigInvalid.
func buildCommand(cfg lib.ProcessConfig) (*exec.Cmd, error) {
	switch l := cfg.Launch.(type) {
	case lib.JavaLaunch:
		if l.JarPath == "" || !isFile(l.JarPath) {
			return nil, fmt.Errorf("%w: jar file not found: %q", lib.ErrConfigInvalid, l.JarPath)
		}
		l.JarPath = absPath(l.JarPath)
		program := l.Program()
		if filepath.Base(program) != program {
			program = absPath(program)
		}
		cmd := exec.Command(program, JavaArgs(l, cfg.ExtraArgs)...)
		cmd.Dir = cfg.WorkingDirectory()
		return cmd, nil
	case lib.ExecutableLaunch:
		if l.Path == "" || !isFile(l.Path) {
			return nil, fmt.Errorf("%w: executable not found: %q", lib.ErrConfigInvalid, l.Path)
		}
		// A relative Path would be resolved against Dir.
		cmd := exec.Command(absPath(l.Path), cfg.ExtraArgs...)
		cmd.Dir = cfg.WorkingDirectory()
		return cmd, nil
	default:
		return nil, fmt.Errorf("%w: missing launch kind", lib.ErrConfigInvalid)
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
