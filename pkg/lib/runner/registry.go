package runner

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/output_storage"
)

// StateSink persists the registry state after every mutation.
type StateSink interface {
	Save(lib.State) error
}

// Registry owns the ordered configs, one lazily created Supervisor and one
// LogBuffer per config, and the launcher settings. It fans every supervisor
// event out to its subscribers.
//
// The registry lock is never held while calling into a supervisor.
type Registry struct {
	mu          sync.RWMutex
	order       []string
	configs     map[string]lib.ProcessConfig
	supervisors map[string]*Supervisor
	settings    lib.Settings

	// logsMu guards logs. Supervisor events arrive with the supervisor lock
	// held, so the event path never touches mu.
	logsMu sync.Mutex
	logs   map[string]*output_storage.LogBuffer

	events *output_storage.Broadcaster[lib.Event]

	clock       Clock
	metrics     *Metrics
	sink        StateSink
	maxLogLines int

	// persistMu orders snapshots and saves, so the last save holds the
	// newest state.
	persistMu sync.Mutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock sets the clock handed to every supervisor.
func WithRegistryClock(c Clock) RegistryOption {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithRegistryMetrics shares m with every supervisor.
func WithRegistryMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithStateSink persists mutations through sink.
func WithStateSink(sink StateSink) RegistryOption {
	return func(r *Registry) { r.sink = sink }
}

// WithMaxLogLines overrides output_storage.DefaultMaxLines.
func WithMaxLogLines(n int) RegistryOption {
	return func(r *Registry) { r.maxLogLines = n }
}

// NewRegistry creates a registry holding the configs and settings of state.
// Configs with an empty or repeated id are skipped. Only the first tunnel agent
// keeps its role.
func NewRegistry(state lib.State, opts ...RegistryOption) *Registry {
	r := &Registry{
		configs:     make(map[string]lib.ProcessConfig),
		supervisors: make(map[string]*Supervisor),
		logs:        make(map[string]*output_storage.LogBuffer),
		events:      output_storage.RunNewBroadcaster[lib.Event](),
		settings:    state.Settings.Clone(),
		clock:       SystemClock,
		maxLogLines: output_storage.DefaultMaxLines,
	}
	for _, opt := range opts {
		opt(r)
	}
	var agentID string
	for _, cfg := range state.Servers {
		if _, dup := r.configs[cfg.ID]; cfg.ID == "" || dup {
			logger.Printf("Skipping config %q with empty or duplicate id %q", cfg.Name, cfg.ID)
			continue
		}
		r.insertLocked(demoteExtraAgent(cfg, &agentID))
	}
	return r
}

func (r *Registry) insertLocked(cfg lib.ProcessConfig) {
	r.order = append(r.order, cfg.ID)
	r.configs[cfg.ID] = cfg.Clone()
	r.ensureLogBuffer(cfg.ID)
}

func (r *Registry) ensureLogBuffer(id string) *output_storage.LogBuffer {
	r.logsMu.Lock()
	defer r.logsMu.Unlock()
	b, ok := r.logs[id]
	if !ok {
		b = output_storage.NewLogBuffer(r.maxLogLines)
		r.logs[id] = b
	}
	return b
}

func (r *Registry) logBuffer(id string) *output_storage.LogBuffer {
	r.logsMu.Lock()
	defer r.logsMu.Unlock()
	return r.logs[id]
}

// Add appends cfg. An empty id is replaced with a fresh one; the stored config
// is returned. A second tunnel agent is rejected with lib.ErrConfigInvalid.
func (r *Registry) Add(cfg lib.ProcessConfig) (lib.ProcessConfig, error) {
	if cfg.ID == "" {
		cfg.ID = lib.NewID()
	}
	r.mu.Lock()
	if _, exists := r.configs[cfg.ID]; exists {
		r.mu.Unlock()
		return lib.ProcessConfig{}, fmt.Errorf("%w: duplicate id %q", lib.ErrConfigInvalid, cfg.ID)
	}
	if err := r.checkAgentRoleLocked(cfg); err != nil {
		r.mu.Unlock()
		return lib.ProcessConfig{}, err
	}
	r.insertLocked(cfg)
	r.mu.Unlock()

	r.persist()
	return cfg.Clone(), nil
}

// Update replaces the config with the same id. A live process keeps running;
// the new config applies to its next start. Giving the tunnel agent role to a
// second config is rejected with lib.ErrConfigInvalid.
func (r *Registry) Update(cfg lib.ProcessConfig) error {
	r.mu.Lock()
	if _, ok := r.configs[cfg.ID]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", lib.ErrNotFound, cfg.ID)
	}
	if err := r.checkAgentRoleLocked(cfg); err != nil {
		r.mu.Unlock()
		return err
	}
	sup := r.replaceLocked(cfg)
	r.mu.Unlock()

	if sup != nil {
		sup.UpdateConfig(cfg)
	}
	r.persist()
	return nil
}

// replaceLocked stores cfg over the config with the same id and returns its
// supervisor, which the caller updates after releasing the lock.
func (r *Registry) replaceLocked(cfg lib.ProcessConfig) *Supervisor {
	r.configs[cfg.ID] = cfg.Clone()
	return r.supervisors[cfg.ID]
}

// Remove force-stops the process and forgets the config, its supervisor and
// its log buffer.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	if _, ok := r.configs[id]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", lib.ErrNotFound, id)
	}
	sup := r.removeLocked(id)
	r.mu.Unlock()

	if sup != nil {
		sup.ForceStop()
	}
	r.persist()
	return nil
}

// removeLocked drops id and returns its supervisor, which the caller stops
// after releasing the lock.
func (r *Registry) removeLocked(id string) *Supervisor {
	sup := r.supervisors[id]
	delete(r.supervisors, id)
	delete(r.configs, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })

	r.logsMu.Lock()
	delete(r.logs, id)
	r.logsMu.Unlock()
	return sup
}

// Get returns a copy of the config.
func (r *Registry) Get(id string) (lib.ProcessConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[id]
	if !ok {
		return lib.ProcessConfig{}, fmt.Errorf("%w: %s", lib.ErrNotFound, id)
	}
	return cfg.Clone(), nil
}

// List returns copies of all configs in display order.
func (r *Registry) List() []lib.ProcessConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]lib.ProcessConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.configs[id].Clone())
	}
	return out
}

// Duplicate appends a copy of the config named "<name> Copy" under a new id.
// The copy of a tunnel agent is a plain executable.
func (r *Registry) Duplicate(id string) (lib.ProcessConfig, error) {
	src, err := r.Get(id)
	if err != nil {
		return lib.ProcessConfig{}, err
	}
	clone := src.Clone()
	clone.ID = lib.NewID()
	clone.Name = src.Name + " Copy"
	clone.Role = lib.RoleNone
	return r.Add(clone)
}

// Move shifts the config by offset positions, clamped to the list bounds.
// It reports whether the order changed.
func (r *Registry) Move(id string, offset int) (bool, error) {
	r.mu.Lock()
	current := slices.Index(r.order, id)
	if current < 0 {
		r.mu.Unlock()
		return false, fmt.Errorf("%w: %s", lib.ErrNotFound, id)
	}
	target := max(0, min(len(r.order)-1, current+offset))
	if target == current {
		r.mu.Unlock()
		return false, nil
	}
	r.order = slices.Delete(r.order, current, current+1)
	r.order = slices.Insert(r.order, target, id)
	r.mu.Unlock()

	r.persist()
	return true, nil
}

// Settings returns a copy of the launcher settings.
func (r *Registry) Settings() lib.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Clone()
}

// State returns a snapshot suitable for persisting.
func (r *Registry) State() lib.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked()
}

func (r *Registry) stateLocked() lib.State {
	st := lib.State{
		Servers:  make([]lib.ProcessConfig, 0, len(r.order)),
		Settings: r.settings.Clone(),
	}
	for _, id := range r.order {
		st.Servers = append(st.Servers, r.configs[id].Clone())
	}
	return st
}

// Sync applies a state loaded from outside, typically a reloaded state file.
// Vanished configs are removed as by Remove, changed configs are updated
// without restarting their process, and new configs are added. Logs of
// surviving configs are kept. Only the first tunnel agent keeps its role.
// Sync does not write back to the sink.
func (r *Registry) Sync(state lib.State) {
	var (
		stopped []*Supervisor
		updated = make(map[*Supervisor]lib.ProcessConfig)
	)

	r.mu.Lock()
	seen := make(map[string]bool, len(state.Servers))
	for _, cfg := range state.Servers {
		if cfg.ID != "" {
			seen[cfg.ID] = true
		}
	}
	for _, id := range slices.Clone(r.order) {
		if !seen[id] {
			if sup := r.removeLocked(id); sup != nil {
				stopped = append(stopped, sup)
			}
		}
	}

	var agentID string
	order := make([]string, 0, len(state.Servers))
	for _, cfg := range state.Servers {
		if cfg.ID == "" || slices.Contains(order, cfg.ID) {
			continue
		}
		cfg = demoteExtraAgent(cfg, &agentID)
		order = append(order, cfg.ID)
		old, exists := r.configs[cfg.ID]
		if exists && reflect.DeepEqual(old, cfg) {
			continue
		}
		r.configs[cfg.ID] = cfg.Clone()
		r.ensureLogBuffer(cfg.ID)
		if sup := r.supervisors[cfg.ID]; sup != nil {
			updated[sup] = cfg.Clone()
		}
	}
	r.order = order
	r.settings = state.Settings.Clone()
	r.mu.Unlock()

	for _, sup := range stopped {
		sup.ForceStop()
	}
	for sup, cfg := range updated {
		sup.UpdateConfig(cfg)
	}
	logger.Printf("Synced state: %d configs, %d stopped, %d updated", len(order), len(stopped), len(updated))
}

func (r *Registry) persist() {
	if r.sink == nil {
		return
	}
	r.persistMu.Lock()
	defer r.persistMu.Unlock()
	if err := r.sink.Save(r.State()); err != nil {
		logger.Printf("Failed to save state: %v", err)
	}
}
