package main

import (
	"context"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

func (s *ServerLauncherServiceServer) Status(ctx context.Context, request *protov1.StatusRequest) (*protov1.StatusResponse, error) {
	server, err := s.serverState(request.Id)
	if err != nil {
		return nil, toStatusError(err, "status")
	}
	return &protov1.StatusResponse{Server: server}, nil
}

func (s *ServerLauncherServiceServer) ListServers(ctx context.Context, request *protov1.ListServersRequest) (*protov1.ListServersResponse, error) {
	configs := s.registry.List()
	resp := &protov1.ListServersResponse{Servers: make([]*protov1.ServerState, 0, len(configs))}
	for _, cfg := range configs {
		server, err := s.serverState(cfg.ID)
		if err != nil {
			// Removed by a concurrent state file reload.
			continue
		}
		resp.Servers = append(resp.Servers, server)
	}
	return resp, nil
}
