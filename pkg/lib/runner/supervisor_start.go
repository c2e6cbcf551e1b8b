package runner

import (
	"errors"
	"os/exec"
	"syscall"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/output_storage"
)

// Start spawns the configured process. It is a no-op while a process is live.
//
// A missing jar or executable is reported as lib.ErrConfigInvalid and nothing
// is spawned. An OS spawn failure is not returned: it is reported as a Failed
// status with ProcessError FailedToStart.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc != nil {
		return nil
	}

	cfg := s.config.Clone()
	cmd, err := buildCommand(cfg)
	if err != nil {
		logger.Printf("Refusing to start %s: %v", cfg.ID, err)
		return err
	}

	s.details = lib.RuntimeDetails{}
	s.setStatusLocked(lib.StatusStarting)

	sysProcAttr, err := GetSysProcAttr(cfg.ID, cfg)
	if err != nil {
		s.spawnFailedLocked(cfg, err)
		return nil
	}
	cmd.SysProcAttr = sysProcAttr.Raw

	p := &liveProcess{
		cmd:    cmd,
		config: cfg,
		done:   make(chan struct{}),
	}

	// One writer for both streams keeps the merged output in OS order.
	out := output_storage.NewDecodingWriter(func(chunk string) {
		s.emitOutput(p, chunk)
	})
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = outputWaitDelay

	if cfg.SupportsConsole() {
		stdin, err := cmd.StdinPipe()
		if err != nil {
			closeCgroupFile(sysProcAttr)
			s.spawnFailedLocked(cfg, err)
			return nil
		}
		p.stdin = stdin
	}

	logger.Printf("Starting process %s: %s %v", cfg.ID, cmd.Path, cmd.Args[1:])
	if err := cmd.Start(); err != nil {
		closeCgroupFile(sysProcAttr)
		_ = CleanupCgroup(cfg.ID)
		s.spawnFailedLocked(cfg, err)
		return nil
	}
	closeCgroupFile(sysProcAttr)

	p.started = s.clock.Now()
	s.proc = p
	s.details = lib.RuntimeDetails{PID: lib.Ptr(cmd.Process.Pid)}
	s.metrics.started(cfg.Kind())
	s.setStatusLocked(lib.StatusRunning)

	go s.wait(p, out)
	return nil
}

func closeCgroupFile(attr *SysProcAttr) {
	if attr != nil && attr.File != nil {
		_ = attr.File.Close()
	}
}

func (s *Supervisor) spawnFailedLocked(cfg lib.ProcessConfig, err error) {
	logger.Printf("Failed to start process %s: %v", cfg.ID, err)
	s.metrics.spawnFailed(cfg.Kind())
	s.recordErrorLocked(lib.ErrorFailedToStart)
	s.setStatusLocked(lib.StatusFailed)
}

func (s *Supervisor) recordErrorLocked(e lib.ProcessError) {
	s.details.ProcessError = lib.Ptr(int(e))
	s.details.ProcessErrorName = lib.Ptr(e.String())
}

// wait reaps the process. cmd.Wait returns only after the output copy
// finished, so every output event precedes the final status.
func (s *Supervisor) wait(p *liveProcess, out *output_storage.DecodingWriter) {
	id := p.config.ID
	logger.Printf("Waiting for process %s to finish", id)

	err := p.cmd.Wait()
	_ = out.Close()

	if err != nil {
		logger.Printf("Process %s finished with err: %v", id, err)
	} else {
		logger.Printf("Process %s finished without error", id)
	}

	_ = CleanupCgroup(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	p.exited = true
	close(p.done)
	if s.proc == p {
		s.proc = nil
	}
	s.cancelDeadlineLocked()

	state := p.cmd.ProcessState
	if state == nil {
		// Wait failed before the OS reported an exit.
		s.metrics.released()
		s.recordErrorLocked(lib.ErrorUnknown)
		s.setStatusLocked(lib.StatusFailed)
		return
	}

	exitStatus := lib.NormalExit
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		exitStatus = lib.CrashExit
	}
	s.details.ExitCode = lib.Ptr(state.ExitCode())
	s.details.ExitStatus = lib.Ptr(int(exitStatus))
	s.details.ExitStatusName = lib.Ptr(exitStatus.String())

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The process exited but its output could not be read to the end.
		s.recordErrorLocked(lib.ErrorReadError)
	}

	s.metrics.exited(p.config.Kind(), exitStatus)
	s.setStatusLocked(lib.StatusStopped)
}
