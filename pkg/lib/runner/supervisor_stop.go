package runner

import (
	"time"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

const (
	killReasonDeadline = "deadline"
	killReasonForce    = "force"
)

// Stop asks the process to exit and returns immediately.
//
// A Java server receives its stop command on the console; an executable
// receives SIGTERM (nothing on Windows). Either way a single-shot deadline
// kills the process if it is still alive when it fires. Stop is a no-op
// without a live process or while a stop is already pending.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	p := s.proc
	if p == nil || p.exited || s.status == lib.StatusStopping {
		s.mu.Unlock()
		return
	}
	s.setStatusLocked(lib.StatusStopping)

	switch l := p.config.Launch.(type) {
	case lib.JavaLaunch:
		s.armDeadlineLocked(p, JavaStopTimeout)
		s.mu.Unlock()
		logger.Printf("Sending %q to %s", l.GracefulStopCommand(), p.config.ID)
		if err := s.writeLine(p, l.GracefulStopCommand()); err != nil {
			logger.Printf("Stop command for %s failed: %v", p.config.ID, err)
		}
		return
	default:
		if err := terminateProcessGroup(p.cmd.Process.Pid); err != nil {
			logger.Printf("Terminate %s failed: %v", p.config.ID, err)
		}
		s.armDeadlineLocked(p, ExecutableStopTimeout)
	}
	s.mu.Unlock()
}

// ForceStop cancels a pending deadline and kills the process at once. It is a
// no-op without a live process.
func (s *Supervisor) ForceStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelDeadlineLocked()
	if s.proc == nil {
		return
	}
	s.killLocked(s.proc, killReasonForce)
}

// armDeadlineLocked replaces any pending deadline with a new one for p.
func (s *Supervisor) armDeadlineLocked(p *liveProcess, d time.Duration) {
	s.cancelDeadlineLocked()
	pk := &pendingKill{}
	s.deadline = pk
	pk.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A callback that lost the race against a cancel finds a different
		// (or no) pending deadline and does nothing.
		if s.deadline != pk {
			return
		}
		s.deadline = nil
		if s.proc == p {
			logger.Printf("Process %s did not stop within %v, killing", p.config.ID, d)
			s.killLocked(p, killReasonDeadline)
		}
	})
}

func (s *Supervisor) cancelDeadlineLocked() {
	if s.deadline == nil {
		return
	}
	if s.deadline.timer != nil {
		s.deadline.timer.Stop()
	}
	s.deadline = nil
}

// killLocked kills p and all its descendants, at most once per process.
func (s *Supervisor) killLocked(p *liveProcess, reason string) {
	if p.killed || p.exited {
		return
	}
	p.killed = true
	s.kills++
	s.metrics.killed(reason)

	id := p.config.ID
	if ok, err := KillCgroup(id); ok {
		return
	} else if err != nil {
		logger.Printf("cgroup kill of %s failed: %v", id, err)
	}
	if err := killProcessGroup(p.cmd.Process.Pid); err != nil {
		logger.Printf("Group kill of %s failed: %v", id, err)
		_ = p.cmd.Process.Kill()
	}
}
