package main

import (
	"context"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

func (s *ServerLauncherServiceServer) Stop(ctx context.Context, request *protov1.StopRequest) (*protov1.StopResponse, error) {
	if err := s.checkOperator(ctx); err != nil {
		return nil, err
	}

	logger.Printf("Stopping server: %s (force=%t)", request.Id, request.Force)
	if err := s.registry.Stop(request.Id, request.Force); err != nil {
		return nil, toStatusError(err, "stop")
	}

	server, err := s.serverState(request.Id)
	if err != nil {
		return nil, toStatusError(err, "stop")
	}
	return &protov1.StopResponse{Server: server}, nil
}
