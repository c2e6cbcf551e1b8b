package runner

import (
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// EmitFunc receives every event of a supervisor. It is called with the
// supervisor lock held and must not call back into the supervisor.
type EmitFunc func(lib.Event)

// Supervisor owns the lifecycle of one managed process: spawning, output
// forwarding, graceful and forced stop, and exit classification.
//
// Events are emitted in the order the transitions happen: Starting, Running,
// output chunks, Stopping, Stopped (or Failed).
type Supervisor struct {
	mu      sync.Mutex
	config  lib.ProcessConfig
	status  lib.ProcessStatus
	details lib.RuntimeDetails

	proc     *liveProcess
	deadline *pendingKill

	emit    EmitFunc
	clock   Clock
	metrics *Metrics

	kills int
}

// liveProcess is one OS handle. It is replaced on every successful start.
type liveProcess struct {
	cmd     *exec.Cmd
	config  lib.ProcessConfig
	started time.Time

	stdinMu sync.Mutex
	stdin   io.WriteCloser

	killed bool
	exited bool
	done   chan struct{}
}

type pendingKill struct {
	timer Timer
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithClock replaces the clock used for stop deadlines and uptime.
func WithClock(c Clock) SupervisorOption {
	return func(s *Supervisor) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMetrics records lifecycle counters.
func WithMetrics(m *Metrics) SupervisorOption {
	return func(s *Supervisor) { s.metrics = m }
}

// NewSupervisor creates a stopped supervisor for cfg. emit may be nil.
func NewSupervisor(cfg lib.ProcessConfig, emit EmitFunc, opts ...SupervisorOption) *Supervisor {
	if emit == nil {
		emit = func(lib.Event) {}
	}
	s := &Supervisor{
		config: cfg.Clone(),
		emit:   emit,
		clock:  SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the id of the supervised config.
func (s *Supervisor) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.ID
}

// Config returns a copy of the held config.
func (s *Supervisor) Config() lib.ProcessConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Clone()
}

// UpdateConfig replaces the config used by the next Start. A live process
// keeps running with the config it was started with.
func (s *Supervisor) UpdateConfig(cfg lib.ProcessConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.Clone()
}

// Status reports Stopped whenever no OS handle exists, otherwise the last
// observed status.
func (s *Supervisor) Status() lib.ProcessStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return lib.StatusStopped
	}
	return s.status
}

// Details returns a copy of the current runtime details.
func (s *Supervisor) Details() lib.RuntimeDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details.Clone()
}

// Uptime is the time since the process reached Running. ok is false when
// no process is live.
func (s *Supervisor) Uptime() (uptime time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return 0, false
	}
	return s.clock.Now().Sub(s.proc.started), true
}

// StartedAt returns when the live process was spawned.
func (s *Supervisor) StartedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return time.Time{}, false
	}
	return s.proc.started, true
}

// Done returns a channel closed once the current process has exited. Without
// a live process the channel is already closed.
func (s *Supervisor) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return s.proc.done
}

// setStatusLocked records a transition and publishes it together with a
// details snapshot.
func (s *Supervisor) setStatusLocked(status lib.ProcessStatus) {
	s.status = status
	s.emit(lib.Event{
		Kind:    lib.EventStatusChanged,
		ID:      s.config.ID,
		Status:  status,
		Details: s.details.Clone(),
	})
}

func (s *Supervisor) emitOutput(p *liveProcess, chunk string) {
	if chunk == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(lib.Event{
		Kind: lib.EventOutput,
		ID:   p.config.ID,
		Text: chunk,
	})
}

func (s *Supervisor) killCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kills
}
