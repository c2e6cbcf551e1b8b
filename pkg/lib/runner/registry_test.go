package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

type memorySink struct {
	mu    sync.Mutex
	saves []lib.State
}

func (m *memorySink) Save(st lib.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, st)
	return nil
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func (m *memorySink) last() lib.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[len(m.saves)-1]
}

func names(cfgs []lib.ProcessConfig) string {
	out := make([]string, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, c.Name)
	}
	return strings.Join(out, ",")
}

// collect reads events from ch until cond holds for the collected slice.
func collect(t *testing.T, ch <-chan lib.Event, cond func([]lib.Event) bool) []lib.Event {
	t.Helper()
	var got []lib.Event
	timeout := time.After(5 * time.Second)
	for !cond(got) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("subscription closed early after %d events", len(got))
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("condition not met, got %d events", len(got))
		}
	}
	return got
}

func stoppedFor(id string) func([]lib.Event) bool {
	return func(evs []lib.Event) bool {
		for _, ev := range evs {
			if ev.ID == id && ev.Kind == lib.EventStatusChanged && ev.Status == lib.StatusStopped {
				return true
			}
		}
		return false
	}
}

func TestRegistry_ConfigLifecycle(t *testing.T) {
	sink := &memorySink{}
	r := NewRegistry(lib.State{Settings: lib.DefaultSettings()}, WithStateSink(sink))

	a, err := r.Add(lib.NewJavaServer("alpha", "/srv/a.jar"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	b, err := r.Add(lib.ProcessConfig{Name: "beta", Launch: lib.ExecutableLaunch{Path: "/bin/true"}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if b.ID == "" {
		t.Fatalf("Add must assign an id")
	}
	if _, err := r.Add(a); !errors.Is(err, lib.ErrConfigInvalid) {
		t.Fatalf("duplicate id must be rejected, got %v", err)
	}

	dup, err := r.Duplicate(a.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if dup.Name != "alpha Copy" || dup.ID == a.ID {
		t.Fatalf("unexpected duplicate %+v", dup)
	}
	if got := names(r.List()); got != "alpha,beta,alpha Copy" {
		t.Fatalf("unexpected order %s", got)
	}

	if moved, err := r.Move(dup.ID, -5); err != nil || !moved {
		t.Fatalf("Move failed: moved=%v err=%v", moved, err)
	}
	if moved, _ := r.Move(dup.ID, -1); moved {
		t.Fatalf("moving past the front must be a no-op")
	}
	if got := names(r.List()); got != "alpha Copy,alpha,beta" {
		t.Fatalf("unexpected order after move %s", got)
	}

	a.Name = "alpha prime"
	if err := r.Update(a); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got, _ := r.Get(a.ID); got.Name != "alpha prime" {
		t.Fatalf("Update not applied: %+v", got)
	}

	if err := r.Remove(b.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := names(sink.last().Servers); got != "alpha Copy,alpha prime" {
		t.Fatalf("sink not up to date: %s", got)
	}
	if sink.count() != 6 {
		t.Fatalf("expected 6 saves, got %d", sink.count())
	}
}

func ids(cfgs []lib.ProcessConfig) string {
	out := make([]string, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, c.ID)
	}
	return strings.Join(out, ",")
}

func TestRegistry_LastSaveIsNewestState(t *testing.T) {
	sink := &memorySink{}
	r := NewRegistry(lib.State{Settings: lib.DefaultSettings()}, WithStateSink(sink))

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				cfg, err := r.Add(lib.NewExecutable(fmt.Sprintf("w%d-%d", w, i), "/bin/true"))
				if err != nil {
					t.Errorf("Add failed: %v", err)
					return
				}
				if _, err := r.Move(cfg.ID, -i); err != nil {
					t.Errorf("Move failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	want := r.State()
	if len(want.Servers) != writers*perWriter {
		t.Fatalf("expected %d configs, got %d", writers*perWriter, len(want.Servers))
	}
	if got := sink.last(); ids(got.Servers) != ids(want.Servers) {
		t.Fatalf("last save does not match the registry state")
	}
}

func TestRegistry_UnknownIDs(t *testing.T) {
	r := NewRegistry(lib.State{})
	checks := map[string]error{
		"Start":       r.Start("x"),
		"Stop":        r.Stop("x", false),
		"SendCommand": r.SendCommand("x", "list"),
		"ClearLog":    r.ClearLog("x"),
		"Remove":      r.Remove("x"),
		"Update":      r.Update(lib.ProcessConfig{ID: "x"}),
	}
	_, checks["Status"] = r.Status("x")
	_, checks["Details"] = r.Details("x")
	_, checks["LogSnapshot"] = r.LogSnapshot("x")
	_, _, checks["Uptime"] = r.Uptime("x")
	_, checks["Duplicate"] = r.Duplicate("x")
	_, checks["Move"] = r.Move("x", 1)

	for name, err := range checks {
		if !errors.Is(err, lib.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestRegistry_NeverStartedConfig(t *testing.T) {
	cfg := lib.NewJavaServer("idle", "/srv/idle.jar")
	exe := lib.NewExecutable("agent", "/usr/local/bin/agent")
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg, exe}})

	if st, err := r.Status(cfg.ID); err != nil || st != lib.StatusStopped {
		t.Fatalf("expected Stopped, got %v %v", st, err)
	}
	if err := r.Stop(cfg.ID, true); err != nil {
		t.Fatalf("Stop of a never started config must be a no-op, got %v", err)
	}
	if err := r.SendCommand(cfg.ID, "list"); !errors.Is(err, lib.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if err := r.SendCommand(exe.ID, "list"); !errors.Is(err, lib.ErrConsoleUnsupported) {
		t.Fatalf("expected ErrConsoleUnsupported, got %v", err)
	}
	if err := r.Start(cfg.ID); !errors.Is(err, lib.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for a missing jar, got %v", err)
	}
}

func TestRegistry_EventsAndLogs(t *testing.T) {
	cfg := executableConfig(t, "echo one; echo two; exit 0")
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg}})

	ch, cancel, err := r.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer cancel()

	if err := r.Start(cfg.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	events := collect(t, ch, stoppedFor(cfg.ID))

	var seq []string
	for _, ev := range events {
		if ev.Kind == lib.EventStatusChanged {
			seq = append(seq, ev.Status.String())
		} else if len(seq) == 0 || seq[len(seq)-1] != "output" {
			seq = append(seq, "output")
		}
	}
	if got := strings.Join(seq, ","); got != "Starting,Running,output,Stopped" {
		t.Fatalf("unexpected event order %s", got)
	}

	snap, err := r.LogSnapshot(cfg.ID)
	if err != nil || snap != "one\ntwo\n" {
		t.Fatalf("unexpected log %q err=%v", snap, err)
	}
	if err := r.ClearLog(cfg.ID); err != nil {
		t.Fatalf("ClearLog failed: %v", err)
	}
	if snap, _ := r.LogSnapshot(cfg.ID); snap != "" {
		t.Fatalf("log not cleared: %q", snap)
	}
	details, _ := r.Details(cfg.ID)
	if details.ExitCode == nil || *details.ExitCode != 0 {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestRegistry_LogBufferIsBounded(t *testing.T) {
	cfg := executableConfig(t, `i=0; while [ $i -lt 20 ]; do echo "l$i"; i=$((i+1)); done`)
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg}}, WithMaxLogLines(5))
	ch, cancel, _ := r.Subscribe()
	defer cancel()

	if err := r.Start(cfg.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	collect(t, ch, stoppedFor(cfg.ID))

	lines, _ := r.LogLines(cfg.ID)
	if fmt.Sprint(lines) != fmt.Sprint([]string{"l15\n", "l16\n", "l17\n", "l18\n", "l19\n"}) {
		t.Fatalf("unexpected retained lines %q", lines)
	}
}

func TestRegistry_ProcessesAreIndependent(t *testing.T) {
	good := executableConfig(t, "echo good; exit 0")
	bad := executableConfig(t, "echo bad; exit 9")
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{good, bad}})
	ch, cancel, _ := r.Subscribe()
	defer cancel()

	if err := r.Start(good.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := r.Start(bad.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	collect(t, ch, func(evs []lib.Event) bool {
		return stoppedFor(good.ID)(evs) && stoppedFor(bad.ID)(evs)
	})

	if snap, _ := r.LogSnapshot(good.ID); snap != "good\n" {
		t.Fatalf("log of good mixed up: %q", snap)
	}
	if snap, _ := r.LogSnapshot(bad.ID); snap != "bad\n" {
		t.Fatalf("log of bad mixed up: %q", snap)
	}
	gd, _ := r.Details(good.ID)
	bd, _ := r.Details(bad.ID)
	if *gd.ExitCode != 0 || *bd.ExitCode != 9 {
		t.Fatalf("exit codes mixed up: %d %d", *gd.ExitCode, *bd.ExitCode)
	}
}

func TestRegistry_UpdateWhileRunning(t *testing.T) {
	cfg := executableConfig(t, "exec sleep 30")
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg}})
	if err := r.Start(cfg.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	before, _ := r.Details(cfg.ID)

	updated := cfg.Clone()
	updated.Name = "renamed"
	if err := r.Update(updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	after, _ := r.Details(cfg.ID)
	if st, _ := r.Status(cfg.ID); st != lib.StatusRunning || *after.PID != *before.PID {
		t.Fatalf("Update restarted the process")
	}
	sup, _, _ := r.supervisorFor(cfg.ID, false)
	if sup.Config().Name != "renamed" {
		t.Fatalf("Update did not reach the supervisor")
	}

	if err := r.Remove(cfg.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	waitDone(t, sup.Done())
	if _, err := r.Get(cfg.ID); !errors.Is(err, lib.ErrNotFound) {
		t.Fatalf("removed config still present")
	}
}

func TestRegistry_Uptime(t *testing.T) {
	cfg := executableConfig(t, "exec sleep 30")
	clock := newManualClock()
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg}}, WithRegistryClock(clock))

	if _, ok, _ := r.Uptime(cfg.ID); ok {
		t.Fatalf("uptime must be unknown before start")
	}
	if err := r.Start(cfg.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(90 * time.Second)
	if up, ok, _ := r.Uptime(cfg.ID); !ok || up != 90*time.Second {
		t.Fatalf("expected 90s uptime, got %v ok=%v", up, ok)
	}

	if err := r.Stop(cfg.ID, true); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	sup, _, _ := r.supervisorFor(cfg.ID, false)
	waitDone(t, sup.Done())
	if _, ok, _ := r.Uptime(cfg.ID); ok {
		t.Fatalf("uptime must be cleared on exit")
	}
}

func TestRegistry_Sync(t *testing.T) {
	keep := lib.NewJavaServer("keep", "/srv/keep.jar")
	gone := executableConfig(t, "exec sleep 30")
	sink := &memorySink{}
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{keep, gone}}, WithStateSink(sink))

	if err := r.Start(gone.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	sup, _, _ := r.supervisorFor(gone.ID, false)

	changed := keep.Clone()
	changed.Name = "kept"
	added := lib.NewExecutable("new", "/bin/new")
	settings := lib.DefaultSettings()
	settings.AutoLaunchTunnelAgent = true

	r.Sync(lib.State{Servers: []lib.ProcessConfig{added, changed}, Settings: settings})

	waitDone(t, sup.Done())
	if got := names(r.List()); got != "new,kept" {
		t.Fatalf("unexpected configs after Sync: %s", got)
	}
	if !r.Settings().AutoLaunchTunnelAgent {
		t.Fatalf("settings not synced")
	}
	if snap, err := r.LogSnapshot(added.ID); err != nil || snap != "" {
		t.Fatalf("new config needs an empty log buffer: %q %v", snap, err)
	}
	if sink.count() != 0 {
		t.Fatalf("Sync must not write back, got %d saves", sink.count())
	}
}

func TestRegistry_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	cfg := executableConfig(t, "exit 0")
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg}}, WithRegistryMetrics(m))
	ch, cancel, _ := r.Subscribe()
	defer cancel()

	if err := r.Start(cfg.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	collect(t, ch, stoppedFor(cfg.ID))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	values := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
			if g := metric.GetGauge(); g != nil {
				values[mf.GetName()] += g.GetValue()
			}
		}
	}
	if values["server_launcher_process_starts_total"] != 1 {
		t.Fatalf("expected one start, got %v", values)
	}
	if values["server_launcher_process_exits_total"] != 1 {
		t.Fatalf("expected one exit, got %v", values)
	}
	if values["server_launcher_processes_running"] != 0 {
		t.Fatalf("running gauge must be back to 0, got %v", values)
	}
}

func TestRegistry_Shutdown(t *testing.T) {
	stubborn := executableConfig(t, `trap '' TERM
echo ready
while true; do sleep 0.05; done`)
	polite := executableConfig(t, `trap 'exit 0' TERM
echo ready
while true; do sleep 0.05; done`)
	r := NewRegistry(lib.State{Servers: []lib.ProcessConfig{stubborn, polite}}, WithRegistryClock(newManualClock()))
	ch, _, _ := r.Subscribe()

	for _, id := range []string{stubborn.ID, polite.ID} {
		if err := r.Start(id); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	}
	collect(t, ch, func(evs []lib.Event) bool {
		ready := 0
		for _, ev := range evs {
			if ev.Kind == lib.EventOutput && strings.Contains(ev.Text, "ready") {
				ready++
			}
		}
		return ready == 2
	})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	r.Shutdown(ctx)

	for _, id := range []string{stubborn.ID, polite.ID} {
		if st, _ := r.Status(id); st != lib.StatusStopped {
			t.Fatalf("%s still %v after Shutdown", id, st)
		}
	}
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("subscription not closed by Shutdown")
		}
	}
}
