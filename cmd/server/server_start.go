package main

import (
	"context"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

func (s *ServerLauncherServiceServer) Start(ctx context.Context, request *protov1.StartRequest) (*protov1.StartResponse, error) {
	if err := s.checkOperator(ctx); err != nil {
		return nil, err
	}

	logger.Printf("Starting server: %s", request.Id)
	if err := s.registry.Start(request.Id); err != nil {
		return nil, toStatusError(err, "start")
	}
	s.recordStarter(request.Id, extractSpiffeIdFromContext(ctx))

	server, err := s.serverState(request.Id)
	if err != nil {
		return nil, toStatusError(err, "start")
	}
	logger.Printf("Server %s is %s", request.Id, server.Status)
	return &protov1.StartResponse{Server: server}, nil
}
