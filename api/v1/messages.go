package protov1

import (
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Launch kinds on the wire.
const (
	KindJava       = "java"
	KindExecutable = "executable"
)

// Event types on the wire.
const (
	EventTypeOutput        = "output"
	EventTypeStatusChanged = "status_changed"
)

type ServerConfig struct {
	Id                string   `json:"id"`
	Name              string   `json:"name"`
	Kind              string   `json:"kind"`
	Role              string   `json:"role,omitempty"`
	Path              string   `json:"path"`
	MinRamMb          int32    `json:"min_ram_mb,omitempty"`
	MaxRamMb          int32    `json:"max_ram_mb,omitempty"`
	KeepGuiWindow     bool     `json:"keep_gui_window,omitempty"`
	JavaExecutable    string   `json:"java_executable,omitempty"`
	JvmArgs           []string `json:"jvm_args,omitempty"`
	ExtraArgs         []string `json:"extra_args,omitempty"`
	HideConsoleWindow bool     `json:"hide_console_window,omitempty"`
	StopCommand       string   `json:"stop_command,omitempty"`
}

type RuntimeDetails struct {
	Pid              *int32  `json:"pid,omitempty"`
	ExitCode         *int32  `json:"exit_code,omitempty"`
	ExitStatus       *int32  `json:"exit_status,omitempty"`
	ExitStatusName   *string `json:"exit_status_name,omitempty"`
	ProcessError     *int32  `json:"process_error,omitempty"`
	ProcessErrorName *string `json:"process_error_name,omitempty"`
}

// ServerState is a config together with the state of its process.
type ServerState struct {
	Config    *ServerConfig          `json:"config"`
	Status    string                 `json:"status"`
	Details   *RuntimeDetails        `json:"details,omitempty"`
	StartTime *timestamppb.Timestamp `json:"start_time,omitempty"`
	Uptime    *durationpb.Duration   `json:"uptime,omitempty"`
	// StartedBy is the SPIFFE id of the client that last started the process.
	StartedBy string `json:"started_by,omitempty"`
}

type ListServersRequest struct{}

type ListServersResponse struct {
	Servers []*ServerState `json:"servers"`
}

type StartRequest struct {
	Id string `json:"id"`
}

type StartResponse struct {
	Server *ServerState `json:"server"`
}

type StopRequest struct {
	Id    string `json:"id"`
	Force bool   `json:"force,omitempty"`
}

type StopResponse struct {
	Server *ServerState `json:"server"`
}

type SendCommandRequest struct {
	Id      string `json:"id"`
	Command string `json:"command"`
}

type SendCommandResponse struct{}

type StatusRequest struct {
	Id string `json:"id"`
}

type StatusResponse struct {
	Server *ServerState `json:"server"`
}

type GetLogRequest struct {
	Id string `json:"id"`
}

type GetLogResponse struct {
	Text string `json:"text"`
}

type ClearLogRequest struct {
	Id string `json:"id"`
}

type ClearLogResponse struct{}

type EnsureTunnelAgentRequest struct {
	Start bool `json:"start,omitempty"`
}

type EnsureTunnelAgentResponse struct {
	Server *ServerState `json:"server"`
}

type WatchRequest struct {
	// Id restricts the stream to one config; empty means all.
	Id string `json:"id,omitempty"`
	// IncludeLog sends the retained log of Id as the first output event.
	IncludeLog bool `json:"include_log,omitempty"`
}

type WatchEvent struct {
	Id      string          `json:"id"`
	Type    string          `json:"type"`
	Text    string          `json:"text,omitempty"`
	Status  string          `json:"status,omitempty"`
	Details *RuntimeDetails `json:"details,omitempty"`
}
