package runner

import (
	"fmt"
	"time"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// supervisorFor returns the supervisor of id, creating it when create is set.
// The supervisor is nil when it does not exist yet and create is false.
func (r *Registry) supervisorFor(id string, create bool) (*Supervisor, lib.ProcessConfig, error) {
	if create {
		r.mu.Lock()
		defer r.mu.Unlock()
	} else {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	cfg, ok := r.configs[id]
	if !ok {
		return nil, lib.ProcessConfig{}, fmt.Errorf("%w: %s", lib.ErrNotFound, id)
	}
	sup := r.supervisors[id]
	if sup == nil && create {
		sup = NewSupervisor(cfg, r.handleEvent, WithClock(r.clock), WithMetrics(r.metrics))
		r.supervisors[id] = sup
	}
	return sup, cfg.Clone(), nil
}

// Start creates the supervisor on first use and starts it.
func (r *Registry) Start(id string) error {
	sup, _, err := r.supervisorFor(id, true)
	if err != nil {
		return err
	}
	return sup.Start()
}

// Stop stops the process gracefully, or kills it at once when force is set.
// Stopping a config that never ran is a no-op.
func (r *Registry) Stop(id string, force bool) error {
	sup, _, err := r.supervisorFor(id, false)
	if err != nil || sup == nil {
		return err
	}
	if force {
		sup.ForceStop()
	} else {
		sup.Stop()
	}
	return nil
}

// SendCommand writes one console line to a running Java server.
func (r *Registry) SendCommand(id, text string) error {
	sup, cfg, err := r.supervisorFor(id, false)
	if err != nil {
		return err
	}
	if sup == nil {
		if !cfg.SupportsConsole() {
			return fmt.Errorf("%w: %s process", lib.ErrConsoleUnsupported, cfg.Kind())
		}
		return lib.ErrNotRunning
	}
	return sup.SendCommand(text)
}

// Status is Stopped for configs that never ran.
func (r *Registry) Status(id string) (lib.ProcessStatus, error) {
	sup, _, err := r.supervisorFor(id, false)
	if err != nil {
		return lib.StatusStopped, err
	}
	if sup == nil {
		return lib.StatusStopped, nil
	}
	return sup.Status(), nil
}

// Details returns the runtime details of the current or last run.
func (r *Registry) Details(id string) (lib.RuntimeDetails, error) {
	sup, _, err := r.supervisorFor(id, false)
	if err != nil || sup == nil {
		return lib.RuntimeDetails{}, err
	}
	return sup.Details(), nil
}

// LogSnapshot returns the retained console output of id.
func (r *Registry) LogSnapshot(id string) (string, error) {
	if _, err := r.Get(id); err != nil {
		return "", err
	}
	return r.logBuffer(id).Snapshot(), nil
}

// LogLines returns the retained console lines of id.
func (r *Registry) LogLines(id string) ([]string, error) {
	if _, err := r.Get(id); err != nil {
		return nil, err
	}
	return r.logBuffer(id).Lines(), nil
}

// ClearLog empties the log buffer without touching the process.
func (r *Registry) ClearLog(id string) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	r.logBuffer(id).Clear()
	return nil
}

// Uptime reports how long the process of id has been live. ok is false when
// nothing is running.
func (r *Registry) Uptime(id string) (uptime time.Duration, ok bool, err error) {
	sup, _, err := r.supervisorFor(id, false)
	if err != nil || sup == nil {
		return 0, false, err
	}
	uptime, ok = sup.Uptime()
	return uptime, ok, nil
}

// StartedAt reports when the live process of id was spawned.
func (r *Registry) StartedAt(id string) (time.Time, bool, error) {
	sup, _, err := r.supervisorFor(id, false)
	if err != nil || sup == nil {
		return time.Time{}, false, err
	}
	t, ok := sup.StartedAt()
	return t, ok, nil
}
