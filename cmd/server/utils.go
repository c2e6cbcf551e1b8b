package main

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

func toProtoConfig(cfg lib.ProcessConfig) *protov1.ServerConfig {
	pc := &protov1.ServerConfig{
		Id:                cfg.ID,
		Name:              cfg.Name,
		Role:              cfg.Role.String(),
		ExtraArgs:         cfg.ExtraArgs,
		HideConsoleWindow: cfg.HideConsoleWindow,
	}
	switch l := cfg.Launch.(type) {
	case lib.JavaLaunch:
		pc.Kind = protov1.KindJava
		pc.Path = l.JarPath
		pc.MinRamMb = int32(l.MinRAMMB)
		pc.MaxRamMb = int32(l.MaxRAMMB)
		pc.KeepGuiWindow = l.KeepGUIWindow
		pc.JavaExecutable = l.JavaExecutable
		pc.JvmArgs = l.JVMArgs
		pc.StopCommand = l.StopCommand
	case lib.ExecutableLaunch:
		pc.Kind = protov1.KindExecutable
		pc.Path = l.Path
	}
	return pc
}

func toProtoDetails(d lib.RuntimeDetails) *protov1.RuntimeDetails {
	return &protov1.RuntimeDetails{
		Pid:              toInt32(d.PID),
		ExitCode:         toInt32(d.ExitCode),
		ExitStatus:       toInt32(d.ExitStatus),
		ExitStatusName:   d.ExitStatusName,
		ProcessError:     toInt32(d.ProcessError),
		ProcessErrorName: d.ProcessErrorName,
	}
}

func toProtoEvent(ev lib.Event) *protov1.WatchEvent {
	if ev.Kind == lib.EventOutput {
		return &protov1.WatchEvent{Id: ev.ID, Type: protov1.EventTypeOutput, Text: ev.Text}
	}
	return &protov1.WatchEvent{
		Id:      ev.ID,
		Type:    protov1.EventTypeStatusChanged,
		Status:  ev.Status.String(),
		Details: toProtoDetails(ev.Details),
	}
}

// serverState assembles the wire view of one config and its process.
func (s *ServerLauncherServiceServer) serverState(id string) (*protov1.ServerState, error) {
	cfg, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	st, err := s.registry.Status(id)
	if err != nil {
		return nil, err
	}
	details, err := s.registry.Details(id)
	if err != nil {
		return nil, err
	}

	out := &protov1.ServerState{
		Config:    toProtoConfig(cfg),
		Status:    st.String(),
		Details:   toProtoDetails(details),
		StartedBy: s.starter(id),
	}
	if startedAt, ok, _ := s.registry.StartedAt(id); ok {
		out.StartTime = timestamppb.New(startedAt)
	}
	if uptime, ok, _ := s.registry.Uptime(id); ok {
		out.Uptime = durationpb.New(uptime)
	}
	return out, nil
}

// toStatusError maps launcher errors onto gRPC codes.
func toStatusError(err error, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, lib.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s: %v", action, err)
	case errors.Is(err, lib.ErrConfigInvalid):
		return status.Errorf(codes.InvalidArgument, "%s: %v", action, err)
	case errors.Is(err, lib.ErrNotRunning):
		return status.Errorf(codes.FailedPrecondition, "%s: %v", action, err)
	case errors.Is(err, lib.ErrConsoleUnsupported):
		return status.Errorf(codes.Unimplemented, "%s: %v", action, err)
	default:
		return status.Errorf(codes.Internal, "%s: %v", action, err)
	}
}

func toInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	return lib.Ptr(int32(*v))
}
