package main

import (
	"io"
	"log"
	"slices"
	"sync"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/runner"
)

var logger = log.New(io.Discard, "server: ", log.LstdFlags)

type ServerLauncherServiceServer struct {
	protov1.UnimplementedServerLauncherServiceServer
	registry  *runner.Registry
	operators []string
	mu        sync.RWMutex
	// startedBy maps a config id to the SPIFFE id that last started it.
	startedBy map[string]string
}

func NewServerLauncherServiceServer(registry *runner.Registry, operators []string) *ServerLauncherServiceServer {
	return &ServerLauncherServiceServer{
		registry:  registry,
		operators: slices.Clone(operators),
		startedBy: make(map[string]string),
	}
}

func (s *ServerLauncherServiceServer) recordStarter(id string, spiffeId *string) {
	if spiffeId == nil {
		return
	}
	s.mu.Lock()
	s.startedBy[id] = *spiffeId
	s.mu.Unlock()
}

func (s *ServerLauncherServiceServer) starter(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedBy[id]
}
