package main

import (
	"context"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

func (s *ServerLauncherServiceServer) EnsureTunnelAgent(ctx context.Context, request *protov1.EnsureTunnelAgentRequest) (*protov1.EnsureTunnelAgentResponse, error) {
	if err := s.checkOperator(ctx); err != nil {
		return nil, err
	}

	var (
		agent lib.ProcessConfig
		err   error
	)
	if request.Start {
		agent, err = s.registry.EnsureTunnelAgentStarted()
		if err == nil {
			s.recordStarter(agent.ID, extractSpiffeIdFromContext(ctx))
		}
	} else {
		agent, err = s.registry.EnsureTunnelAgent()
	}
	if err != nil {
		return nil, toStatusError(err, "tunnel agent")
	}

	server, err := s.serverState(agent.ID)
	if err != nil {
		return nil, toStatusError(err, "tunnel agent")
	}
	return &protov1.EnsureTunnelAgentResponse{Server: server}, nil
}
