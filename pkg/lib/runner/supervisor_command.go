package runner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// SendCommand writes text as one console line to a Java server.
func (s *Supervisor) SendCommand(text string) error {
	s.mu.Lock()
	p := s.proc
	kind := s.config.Kind()
	if p != nil {
		kind = p.config.Kind()
	}
	s.mu.Unlock()

	if kind != lib.LaunchJavaServer {
		return fmt.Errorf("%w: %s process", lib.ErrConsoleUnsupported, kind)
	}
	if p == nil || p.stdin == nil {
		return lib.ErrNotRunning
	}
	return s.writeLine(p, text)
}

// writeLine trims trailing line breaks, appends "\n" and writes the line.
// The caller waits at most commandWriteTimeout; a write still blocked on a
// full pipe completes in the background or fails when the process exits.
func (s *Supervisor) writeLine(p *liveProcess, text string) error {
	if p.stdin == nil {
		return lib.ErrNotRunning
	}
	line := strings.TrimRight(text, "\r\n") + "\n"

	result := make(chan error, 1)
	go func() {
		p.stdinMu.Lock()
		defer p.stdinMu.Unlock()
		_, err := io.WriteString(p.stdin, line)
		result <- err
	}()

	timer := time.NewTimer(commandWriteTimeout)
	defer timer.Stop()
	select {
	case err := <-result:
		if err != nil {
			s.mu.Lock()
			if p.exited {
				err = lib.ErrNotRunning
			}
			s.mu.Unlock()
			return fmt.Errorf("write to %s: %w", p.config.ID, err)
		}
		return nil
	case <-timer.C:
		logger.Printf("Command write to %s still pending after %v", p.config.ID, commandWriteTimeout)
		return nil
	}
}
