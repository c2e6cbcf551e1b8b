package lib

import "fmt"

// ProcessStatus is the lifecycle state of a managed process.
type ProcessStatus int

const (
	StatusStopped ProcessStatus = iota
	StatusStarting
	StatusRunning
	StatusStopping
	StatusFailed
)

func (s ProcessStatus) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusStarting:
		return "Starting"
	case StatusRunning:
		return "Running"
	case StatusStopping:
		return "Stopping"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseProcessStatus is the inverse of ProcessStatus.String.
func ParseProcessStatus(s string) (ProcessStatus, error) {
	for st := StatusStopped; st <= StatusFailed; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return StatusStopped, fmt.Errorf("unknown process status %q", s)
}

// Live reports whether the status implies a live OS process.
func (s ProcessStatus) Live() bool {
	return s == StatusStarting || s == StatusRunning || s == StatusStopping
}

// ExitStatus tells a normal exit apart from a termination by signal.
type ExitStatus int

const (
	NormalExit ExitStatus = iota
	CrashExit
)

func (e ExitStatus) String() string {
	if e == CrashExit {
		return "CrashExit"
	}
	return "NormalExit"
}

// ProcessError classifies OS-level failures of a managed process.
type ProcessError int

const (
	ErrorFailedToStart ProcessError = iota
	ErrorCrashed
	ErrorTimedOut
	ErrorReadError
	ErrorWriteError
	ErrorUnknown
)

func (e ProcessError) String() string {
	switch e {
	case ErrorFailedToStart:
		return "FailedToStart"
	case ErrorCrashed:
		return "Crashed"
	case ErrorTimedOut:
		return "Timedout"
	case ErrorReadError:
		return "ReadError"
	case ErrorWriteError:
		return "WriteError"
	default:
		return "UnknownError"
	}
}

// RuntimeDetails captures what is known about the current or last process run.
// All fields are optional; nil means unknown.
type RuntimeDetails struct {
	PID              *int    `json:"pid,omitempty"`
	ExitCode         *int    `json:"exit_code,omitempty"`
	ExitStatus       *int    `json:"exit_status,omitempty"`
	ExitStatusName   *string `json:"exit_status_name,omitempty"`
	ProcessError     *int    `json:"process_error,omitempty"`
	ProcessErrorName *string `json:"process_error_name,omitempty"`
}

// Clone returns a deep copy so callers never share pointers with a supervisor.
func (d RuntimeDetails) Clone() RuntimeDetails {
	return RuntimeDetails{
		PID:              cloneInt(d.PID),
		ExitCode:         cloneInt(d.ExitCode),
		ExitStatus:       cloneInt(d.ExitStatus),
		ExitStatusName:   cloneString(d.ExitStatusName),
		ProcessError:     cloneInt(d.ProcessError),
		ProcessErrorName: cloneString(d.ProcessErrorName),
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// EventKind discriminates Event payloads.
type EventKind int

const (
	EventOutput EventKind = iota
	EventStatusChanged
)

func (k EventKind) String() string {
	if k == EventOutput {
		return "output"
	}
	return "status_changed"
}

// Event is delivered to registry subscribers. Output events carry Text;
// status events carry Status together with the Details snapshot taken at the
// moment of the transition.
type Event struct {
	Kind    EventKind
	ID      string
	Text    string
	Status  ProcessStatus
	Details RuntimeDetails
}
