package runner

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping: shell scripts are not available on Windows")
	}
}

// writeScript creates an executable /bin/sh script in dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func executableConfig(t *testing.T, body string) lib.ProcessConfig {
	t.Helper()
	skipOnWindows(t)
	path := writeScript(t, t.TempDir(), "agent.sh", body)
	return lib.NewExecutable("agent", path)
}

// javaConfig points the java program at a script standing in for the JVM.
func javaConfig(t *testing.T, body string) lib.ProcessConfig {
	t.Helper()
	skipOnWindows(t)
	dir := t.TempDir()
	jar := filepath.Join(dir, "server.jar")
	if err := os.WriteFile(jar, []byte("jar"), 0o644); err != nil {
		t.Fatalf("write jar: %v", err)
	}
	cfg := lib.NewJavaServer("survival", jar)
	l := cfg.Launch.(lib.JavaLaunch)
	l.JavaExecutable = writeScript(t, dir, "java", body)
	cfg.Launch = l
	return cfg
}

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []lib.Event
}

func (r *recorder) emit(ev lib.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []lib.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]lib.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) output() string {
	var sb strings.Builder
	for _, ev := range r.snapshot() {
		if ev.Kind == lib.EventOutput {
			sb.WriteString(ev.Text)
		}
	}
	return sb.String()
}

func (r *recorder) statuses() []lib.ProcessStatus {
	var out []lib.ProcessStatus
	for _, ev := range r.snapshot() {
		if ev.Kind == lib.EventStatusChanged {
			out = append(out, ev.Status)
		}
	}
	return out
}

// waitStatus waits until the n-th (1-based) event with status st arrived and
// returns it.
func (r *recorder) waitStatus(t *testing.T, st lib.ProcessStatus, n int) lib.Event {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		seen := 0
		for _, ev := range r.snapshot() {
			if ev.Kind == lib.EventStatusChanged && ev.Status == st {
				seen++
				if seen == n {
					return ev
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("status %v #%d not observed, got %v", st, n, r.statuses())
	return lib.Event{}
}

func (r *recorder) waitOutput(t *testing.T, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(r.output(), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output %q not observed, got %q", substr, r.output())
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("process did not exit in time")
	}
}
