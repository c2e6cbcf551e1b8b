package main

import (
	"context"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

func (s *ServerLauncherServiceServer) GetLog(ctx context.Context, request *protov1.GetLogRequest) (*protov1.GetLogResponse, error) {
	text, err := s.registry.LogSnapshot(request.Id)
	if err != nil {
		return nil, toStatusError(err, "get log")
	}
	return &protov1.GetLogResponse{Text: text}, nil
}

func (s *ServerLauncherServiceServer) ClearLog(ctx context.Context, request *protov1.ClearLogRequest) (*protov1.ClearLogResponse, error) {
	if err := s.checkOperator(ctx); err != nil {
		return nil, err
	}
	if err := s.registry.ClearLog(request.Id); err != nil {
		return nil, toStatusError(err, "clear log")
	}
	return &protov1.ClearLogResponse{}, nil
}
