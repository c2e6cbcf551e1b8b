package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/google/uuid"
)

// LaunchKind selects the spawn strategy of a ProcessConfig.
type LaunchKind int

const (
	LaunchJavaServer LaunchKind = iota
	LaunchExternalExecutable
)

func (k LaunchKind) String() string {
	switch k {
	case LaunchJavaServer:
		return "java"
	case LaunchExternalExecutable:
		return "executable"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Role marks configs with a special meaning to the registry.
type Role int

const (
	RoleNone Role = iota
	// RoleTunnelAgent marks the single executable used to expose managed
	// servers externally. At most one config carries it.
	RoleTunnelAgent
)

func (r Role) String() string {
	if r == RoleTunnelAgent {
		return "tunnel_agent"
	}
	return ""
}

// Launch is the kind-specific half of a ProcessConfig. It is implemented by
// JavaLaunch and ExecutableLaunch only.
type Launch interface {
	Kind() LaunchKind
	// PrimaryPath is the jar or executable the working directory derives from.
	PrimaryPath() string
	clone() Launch
}

// DefaultStopCommand is written to a Java server's console on graceful stop.
const DefaultStopCommand = "stop"

// JavaLaunch runs `java -jar` on a server jar.
type JavaLaunch struct {
	JarPath        string
	MinRAMMB       int
	MaxRAMMB       int
	KeepGUIWindow  bool
	JavaExecutable string // empty means "java" from PATH
	JVMArgs        []string
	// StopCommand overrides DefaultStopCommand when set.
	StopCommand string
}

func (JavaLaunch) Kind() LaunchKind      { return LaunchJavaServer }
func (j JavaLaunch) PrimaryPath() string { return j.JarPath }

func (j JavaLaunch) clone() Launch {
	j.JVMArgs = slices.Clone(j.JVMArgs)
	return j
}

// Program returns the java binary to spawn.
func (j JavaLaunch) Program() string {
	if j.JavaExecutable == "" {
		return "java"
	}
	return j.JavaExecutable
}

// GracefulStopCommand returns the console command requesting shutdown.
func (j JavaLaunch) GracefulStopCommand() string {
	if j.StopCommand == "" {
		return DefaultStopCommand
	}
	return j.StopCommand
}

// ExecutableLaunch runs an arbitrary executable.
type ExecutableLaunch struct {
	Path string
}

func (ExecutableLaunch) Kind() LaunchKind      { return LaunchExternalExecutable }
func (e ExecutableLaunch) PrimaryPath() string { return e.Path }
func (e ExecutableLaunch) clone() Launch       { return e }

// ProcessConfig describes one managed process.
type ProcessConfig struct {
	ID   string
	Name string
	Role Role

	Launch Launch

	// ExtraArgs are program arguments for both kinds.
	ExtraArgs []string
	// HideConsoleWindow is honoured on Windows only.
	HideConsoleWindow bool
}

// Kind reports the launch kind, defaulting to Java for a config without Launch.
func (c ProcessConfig) Kind() LaunchKind {
	if c.Launch == nil {
		return LaunchJavaServer
	}
	return c.Launch.Kind()
}

// SupportsConsole reports whether the process reads commands from stdin.
func (c ProcessConfig) SupportsConsole() bool {
	return c.Kind() == LaunchJavaServer
}

// WorkingDirectory is the parent folder of the jar or executable.
func (c ProcessConfig) WorkingDirectory() string {
	if c.Launch == nil || c.Launch.PrimaryPath() == "" {
		wd, _ := os.Getwd()
		return wd
	}
	abs, err := filepath.Abs(c.Launch.PrimaryPath())
	if err != nil {
		return filepath.Dir(c.Launch.PrimaryPath())
	}
	return filepath.Dir(abs)
}

// DisplayMemory renders the heap bounds, "--" for non-Java configs.
func (c ProcessConfig) DisplayMemory() string {
	j, ok := c.Launch.(JavaLaunch)
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%dM / %dM", j.MinRAMMB, j.MaxRAMMB)
}

// Clone returns a deep copy.
func (c ProcessConfig) Clone() ProcessConfig {
	c.ExtraArgs = slices.Clone(c.ExtraArgs)
	if c.Launch != nil {
		c.Launch = c.Launch.clone()
	}
	return c
}

// Validate checks what an editor should enforce before handing the config
// over. The supervisor does not call it.
func (c ProcessConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrConfigInvalid)
	}
	switch l := c.Launch.(type) {
	case JavaLaunch:
		if l.JarPath == "" {
			return fmt.Errorf("%w: jar path is required", ErrConfigInvalid)
		}
		if l.MinRAMMB < 0 || l.MaxRAMMB < 0 {
			return fmt.Errorf("%w: memory bounds must not be negative", ErrConfigInvalid)
		}
		if l.MinRAMMB > l.MaxRAMMB {
			return fmt.Errorf("%w: min RAM %dM exceeds max RAM %dM", ErrConfigInvalid, l.MinRAMMB, l.MaxRAMMB)
		}
	case ExecutableLaunch:
		if l.Path == "" {
			return fmt.Errorf("%w: executable path is required", ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: missing launch kind", ErrConfigInvalid)
	}
	return nil
}

// NewJavaServer returns a Java config with the launcher defaults (512M/1024M).
func NewJavaServer(name, jarPath string) ProcessConfig {
	return ProcessConfig{
		ID:     NewID(),
		Name:   name,
		Launch: JavaLaunch{JarPath: jarPath, MinRAMMB: 512, MaxRAMMB: 1024},
	}
}

// NewExecutable returns an executable config.
func NewExecutable(name, path string, args ...string) ProcessConfig {
	return ProcessConfig{
		ID:        NewID(),
		Name:      name,
		Launch:    ExecutableLaunch{Path: path},
		ExtraArgs: args,
	}
}

// NewID generates a UUID version 4 string (RFC 4122)
func NewID() string {
	return uuid.NewString()
}

// Settings are the launcher-wide preferences.
type Settings struct {
	TunnelAgentPath       string
	TunnelAgentArgs       []string
	AutoLaunchTunnelAgent bool
	HideConsoleWindows    bool
}

// DefaultTunnelAgentPath is where the playit.gg agent installs itself.
func DefaultTunnelAgentPath() string {
	if runtime.GOOS == "windows" {
		return `C:\Program Files\playit_gg\bin\playit.exe`
	}
	return "/usr/local/bin/playit"
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		TunnelAgentPath:    DefaultTunnelAgentPath(),
		HideConsoleWindows: true,
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	s.TunnelAgentArgs = slices.Clone(s.TunnelAgentArgs)
	return s
}

// State is everything the launcher persists: ordered configs and settings.
type State struct {
	Servers  []ProcessConfig
	Settings Settings
}
