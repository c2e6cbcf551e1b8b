package state

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

func sampleState() lib.State {
	java := lib.NewJavaServer("Survival", "/srv/survival/server.jar")
	l := java.Launch.(lib.JavaLaunch)
	l.JVMArgs = []string{"-XX:+UseG1GC"}
	l.StopCommand = "end"
	java.Launch = l
	java.ExtraArgs = []string{"--port", "25566"}

	agent := lib.NewExecutable("Tunnel Agent", "/usr/local/bin/playit", "--secret", "x")
	agent.Role = lib.RoleTunnelAgent
	agent.HideConsoleWindow = true

	settings := lib.DefaultSettings()
	settings.TunnelAgentArgs = []string{"--secret", "x"}
	settings.AutoLaunchTunnelAgent = true

	return lib.State{Servers: []lib.ProcessConfig{java, agent}, Settings: settings}
}

func TestFile_SaveLoadAllFormats(t *testing.T) {
	want := sampleState()
	for _, name := range []string{"state.json", "state.yaml", "state.yml", "state.toml"} {
		t.Run(name, func(t *testing.T) {
			f, err := NewFile(filepath.Join(t.TempDir(), name))
			if err != nil {
				t.Fatalf("NewFile failed: %v", err)
			}
			if err := f.Save(want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := f.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("state mismatch:\n got=%+v\nwant=%+v", got, want)
			}
		})
	}
}

func TestFile_LoadMissingFile(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	st, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(st.Servers) != 0 || !reflect.DeepEqual(st.Settings, lib.DefaultSettings()) {
		t.Fatalf("expected empty default state, got %+v", st)
	}
}

func TestNewFile_RejectsUnknownExtension(t *testing.T) {
	if _, err := NewFile("state.ini"); err == nil {
		t.Fatalf("expected an error for .ini")
	}
}

func TestDecode_LegacyJSON(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{
  // written by an older launcher
  "version": 3,
  "servers": [
    {"id": "s1", "name": "Lobby", "jar_path": "C:/mc/lobby.jar", "use_minecraft_gui": true},
    {"name": "playit", "jar_path": "", "launch_type": "playit",
     "custom_executable": "C:/playit/playit.exe", "program_args": ["--silent"]},
  ],
  "saved_commands": [],
  "settings": {"playit_args": "--silent", "auto_launch_playit": true}
}`)...)

	st, err := Decode("legacy.json", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(st.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(st.Servers))
	}

	lobby := st.Servers[0]
	l, ok := lobby.Launch.(lib.JavaLaunch)
	if !ok || l.MinRAMMB != 512 || l.MaxRAMMB != 1024 || !l.KeepGUIWindow {
		t.Fatalf("java defaults not applied: %+v", lobby)
	}

	agent := st.Servers[1]
	if agent.ID == "" || agent.Role != lib.RoleTunnelAgent || agent.Kind() != lib.LaunchExternalExecutable {
		t.Fatalf("legacy playit entry not mapped: %+v", agent)
	}
	if agent.Launch.PrimaryPath() != "C:/playit/playit.exe" {
		t.Fatalf("unexpected agent path %q", agent.Launch.PrimaryPath())
	}

	if len(st.Settings.TunnelAgentArgs) != 0 {
		t.Fatalf("legacy --silent settings args must be dropped, got %q", st.Settings.TunnelAgentArgs)
	}
	if !st.Settings.AutoLaunchTunnelAgent || !st.Settings.HideConsoleWindows {
		t.Fatalf("unexpected settings %+v", st.Settings)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode("s.json", []byte(`{"servers": [{"launch_type": "python"}]}`)); err == nil {
		t.Fatalf("expected an error for an unknown launch type")
	}
	if _, err := Decode("s.yaml", []byte("servers: [")); err == nil {
		t.Fatalf("expected a yaml syntax error")
	}
	if _, err := Decode("s.toml", []byte(`settings = { playit_args = 3 }`)); err == nil {
		t.Fatalf("expected an error for numeric playit_args")
	}
}

func TestFile_WatchReportsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "state.yaml"))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if err := f.Save(sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan lib.State, 4)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- f.Watch(ctx, func(st lib.State) { changes <- st })
	}()
	// Let the watcher register the directory.
	time.Sleep(100 * time.Millisecond)

	// Own writes are not reported.
	if err := f.Save(sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	select {
	case st := <-changes:
		t.Fatalf("own write reported: %+v", st)
	case <-time.After(3 * ReloadDebounce):
	}

	edited := "servers:\n  - id: x\n    name: Edited\n    launch_type: executable\n    custom_executable: /bin/x\n"
	if err := os.WriteFile(f.Path(), []byte(edited), 0o644); err != nil {
		t.Fatalf("external write failed: %v", err)
	}
	select {
	case st := <-changes:
		if len(st.Servers) != 1 || st.Servers[0].Name != "Edited" {
			t.Fatalf("unexpected reloaded state %+v", st)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("external edit not reported")
	}

	cancel()
	select {
	case err := <-watchErr:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Watch did not return after cancel")
	}
}
