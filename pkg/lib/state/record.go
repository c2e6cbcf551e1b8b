package state

import (
	"fmt"
	"strings"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

const (
	fileVersion = 4

	launchTypeJava       = "java"
	launchTypeExecutable = "executable"
	// launchTypePlayit is how older files mark the tunnel agent.
	launchTypePlayit = "playit"

	defaultServerName = "Unnamed Server"
	defaultMinRAMMB   = 512
	defaultMaxRAMMB   = 1024
)

// fileRecord is the on-disk layout shared by every format. Keys match the
// files written by earlier launcher versions.
type fileRecord struct {
	Version  int            `json:"version" yaml:"version" toml:"version"`
	Servers  []serverRecord `json:"servers" yaml:"servers" toml:"servers"`
	Settings settingsRecord `json:"settings" yaml:"settings" toml:"settings"`
}

type serverRecord struct {
	ID               string   `json:"id" yaml:"id" toml:"id"`
	Name             string   `json:"name" yaml:"name" toml:"name"`
	JarPath          string   `json:"jar_path" yaml:"jar_path" toml:"jar_path"`
	MinRAM           *int     `json:"min_ram,omitempty" yaml:"min_ram,omitempty" toml:"min_ram,omitempty"`
	MaxRAM           *int     `json:"max_ram,omitempty" yaml:"max_ram,omitempty" toml:"max_ram,omitempty"`
	UseMinecraftGUI  bool     `json:"use_minecraft_gui" yaml:"use_minecraft_gui" toml:"use_minecraft_gui"`
	JavaPath         string   `json:"java_path,omitempty" yaml:"java_path,omitempty" toml:"java_path,omitempty"`
	JVMArgs          []string `json:"jvm_args" yaml:"jvm_args" toml:"jvm_args"`
	ProgramArgs      []string `json:"program_args" yaml:"program_args" toml:"program_args"`
	LaunchType       string   `json:"launch_type" yaml:"launch_type" toml:"launch_type"`
	CustomExecutable string   `json:"custom_executable,omitempty" yaml:"custom_executable,omitempty" toml:"custom_executable,omitempty"`
	HideConsole      bool     `json:"hide_console" yaml:"hide_console" toml:"hide_console"`
	Role             string   `json:"role,omitempty" yaml:"role,omitempty" toml:"role,omitempty"`
	StopCommand      string   `json:"stop_command,omitempty" yaml:"stop_command,omitempty" toml:"stop_command,omitempty"`
}

type settingsRecord struct {
	PlayitPath string `json:"playit_path,omitempty" yaml:"playit_path,omitempty" toml:"playit_path,omitempty"`
	// PlayitArgs is a list, or a single whitespace separated string in
	// hand-written files.
	PlayitArgs         any   `json:"playit_args" yaml:"playit_args" toml:"playit_args"`
	AutoLaunchPlayit   bool  `json:"auto_launch_playit" yaml:"auto_launch_playit" toml:"auto_launch_playit"`
	HideConsoleWindows *bool `json:"hide_console_windows,omitempty" yaml:"hide_console_windows,omitempty" toml:"hide_console_windows,omitempty"`
}

func (r fileRecord) toState() (lib.State, error) {
	settings, err := r.Settings.toSettings()
	if err != nil {
		return lib.State{}, err
	}
	st := lib.State{
		Servers:  make([]lib.ProcessConfig, 0, len(r.Servers)),
		Settings: settings,
	}
	for i, s := range r.Servers {
		cfg, err := s.toConfig()
		if err != nil {
			return lib.State{}, fmt.Errorf("server #%d: %w", i, err)
		}
		st.Servers = append(st.Servers, cfg)
	}
	return st, nil
}

func (s serverRecord) toConfig() (lib.ProcessConfig, error) {
	cfg := lib.ProcessConfig{
		ID:                s.ID,
		Name:              s.Name,
		ExtraArgs:         s.ProgramArgs,
		HideConsoleWindow: s.HideConsole,
	}
	if cfg.ID == "" {
		cfg.ID = lib.NewID()
	}
	if cfg.Name == "" {
		cfg.Name = defaultServerName
	}
	if s.Role == lib.RoleTunnelAgent.String() {
		cfg.Role = lib.RoleTunnelAgent
	}

	switch strings.ToLower(s.LaunchType) {
	case "", launchTypeJava:
		l := lib.JavaLaunch{
			JarPath:        s.JarPath,
			MinRAMMB:       defaultMinRAMMB,
			MaxRAMMB:       defaultMaxRAMMB,
			KeepGUIWindow:  s.UseMinecraftGUI,
			JavaExecutable: s.JavaPath,
			JVMArgs:        s.JVMArgs,
			StopCommand:    s.StopCommand,
		}
		if s.MinRAM != nil {
			l.MinRAMMB = *s.MinRAM
		}
		if s.MaxRAM != nil {
			l.MaxRAMMB = *s.MaxRAM
		}
		cfg.Launch = l
	case launchTypePlayit:
		cfg.Role = lib.RoleTunnelAgent
		fallthrough
	case launchTypeExecutable:
		path := s.CustomExecutable
		if path == "" {
			path = s.JarPath
		}
		cfg.Launch = lib.ExecutableLaunch{Path: path}
	default:
		return lib.ProcessConfig{}, fmt.Errorf("unknown launch_type %q", s.LaunchType)
	}
	return cfg, nil
}

func (s settingsRecord) toSettings() (lib.Settings, error) {
	settings := lib.DefaultSettings()
	if s.PlayitPath != "" {
		settings.TunnelAgentPath = s.PlayitPath
	}
	args, err := argList(s.PlayitArgs)
	if err != nil {
		return lib.Settings{}, fmt.Errorf("playit_args: %w", err)
	}
	if len(args) == 1 && args[0] == "--silent" {
		args = nil
	}
	settings.TunnelAgentArgs = args
	settings.AutoLaunchTunnelAgent = s.AutoLaunchPlayit
	if s.HideConsoleWindows != nil {
		settings.HideConsoleWindows = *s.HideConsoleWindows
	}
	return settings, nil
}

func argList(v any) ([]string, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Fields(a), nil
	case []string:
		return a, nil
	case []any:
		out := make([]string, 0, len(a))
		for _, item := range a {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list or string, got %T", v)
	}
}

func fromState(st lib.State) fileRecord {
	r := fileRecord{
		Version:  fileVersion,
		Servers:  make([]serverRecord, 0, len(st.Servers)),
		Settings: fromSettings(st.Settings),
	}
	for _, cfg := range st.Servers {
		r.Servers = append(r.Servers, fromConfig(cfg))
	}
	return r
}

func fromConfig(cfg lib.ProcessConfig) serverRecord {
	s := serverRecord{
		ID:          cfg.ID,
		Name:        cfg.Name,
		ProgramArgs: nonNil(cfg.ExtraArgs),
		JVMArgs:     []string{},
		HideConsole: cfg.HideConsoleWindow,
		Role:        cfg.Role.String(),
	}
	switch l := cfg.Launch.(type) {
	case lib.JavaLaunch:
		s.LaunchType = launchTypeJava
		s.JarPath = l.JarPath
		s.MinRAM = lib.Ptr(l.MinRAMMB)
		s.MaxRAM = lib.Ptr(l.MaxRAMMB)
		s.UseMinecraftGUI = l.KeepGUIWindow
		s.JavaPath = l.JavaExecutable
		s.JVMArgs = nonNil(l.JVMArgs)
		s.StopCommand = l.StopCommand
	case lib.ExecutableLaunch:
		s.LaunchType = launchTypeExecutable
		s.CustomExecutable = l.Path
	}
	return s
}

func fromSettings(settings lib.Settings) settingsRecord {
	return settingsRecord{
		PlayitPath:         settings.TunnelAgentPath,
		PlayitArgs:         nonNil(settings.TunnelAgentArgs),
		AutoLaunchPlayit:   settings.AutoLaunchTunnelAgent,
		HideConsoleWindows: lib.Ptr(settings.HideConsoleWindows),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
