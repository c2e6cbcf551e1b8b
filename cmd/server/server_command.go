package main

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

func (s *ServerLauncherServiceServer) SendCommand(ctx context.Context, request *protov1.SendCommandRequest) (*protov1.SendCommandResponse, error) {
	if err := s.checkOperator(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(request.Command) == "" {
		return nil, status.Error(codes.InvalidArgument, "command must not be empty")
	}

	if err := s.registry.SendCommand(request.Id, request.Command); err != nil {
		return nil, toStatusError(err, "send command")
	}
	return &protov1.SendCommandResponse{}, nil
}
