package lib

import "errors"

var (
	// ErrConfigInvalid is returned synchronously by Start when the configured
	// jar or executable is missing. No process is spawned.
	ErrConfigInvalid = errors.New("invalid process configuration")

	// ErrConsoleUnsupported is returned when sending a command to a process
	// kind that does not read console input.
	ErrConsoleUnsupported = errors.New("process does not accept console commands")

	// ErrNotRunning is returned by operations that need a live process.
	ErrNotRunning = errors.New("process is not running")

	// ErrNotFound is returned for unknown process ids.
	ErrNotFound = errors.New("process not found")
)
