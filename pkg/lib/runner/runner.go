package runner

import (
	"io"
	"log"
	"os"
	"syscall"
	"time"
)

var logger = log.New(io.Discard, "runner: ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

const (
	// JavaStopTimeout bounds a graceful Java shutdown before the process is killed.
	JavaStopTimeout = 10 * time.Second
	// ExecutableStopTimeout bounds a graceful executable shutdown before the process is killed.
	ExecutableStopTimeout = 3 * time.Second

	commandWriteTimeout = time.Second
	// outputWaitDelay bounds how long Wait keeps copying output after the
	// process exited while a grandchild still holds the pipe.
	outputWaitDelay = 2 * time.Second
)

// Clock schedules deadline callbacks. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// SysProcAttr carries the platform process attributes for one spawn. File,
// when set, is the cgroup directory handed to the kernel and must be closed
// once the process started.
type SysProcAttr struct {
	File *os.File
	Raw  *syscall.SysProcAttr
}
