package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib/runner"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/state"
)

var version = "dev"

const (
	// tunnelAutoLaunchDelay lets the daemon settle before the agent spawns.
	tunnelAutoLaunchDelay = time.Second
	// shutdownTimeout covers the longest graceful stop deadline.
	shutdownTimeout = runner.JavaStopTimeout + 5*time.Second
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	closer := setupLogging(cfg.LogFile)
	err = run(cfg)
	_ = closer.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg daemonConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	file, err := state.NewFile(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("failed to open state file: %w", err)
	}
	st, err := file.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	logger.Printf("Loaded %d server(s) from %s", len(st.Servers), file.Path())

	promRegistry := newMetricsRegistry()
	metrics, err := runner.NewMetrics(promRegistry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	registry := runner.NewRegistry(st,
		runner.WithRegistryMetrics(metrics),
		runner.WithStateSink(file),
	)

	go func() {
		if err := file.Watch(ctx, registry.Sync); err != nil {
			logger.Printf("State file watcher stopped: %v", err)
		}
	}()

	if cfg.MetricsAddress != "" {
		go serveMetrics(ctx, cfg.MetricsAddress, promRegistry)
	}

	if st.Settings.AutoLaunchTunnelAgent {
		t := time.AfterFunc(tunnelAutoLaunchDelay, func() { autoLaunchTunnelAgent(registry) })
		defer t.Stop()
	}

	svc := NewServerLauncherServiceServer(registry, cfg.Operators)

	errCh := make(chan error, 1)
	var grpcServer *GRPCServer
	switch cfg.Mode {
	case modeMCP:
		go func() {
			logger.Printf("Serving MCP on stdio")
			errCh <- server.ServeStdio(newMCPServer(svc, version))
		}()
	default:
		grpcServer, err = NewGRPCServer(cfg, svc)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}
		go func() {
			logger.Printf("server (TLS) listening at %v", grpcServer.Addr())
			errCh <- grpcServer.Serve()
		}()
	}

	select {
	case <-ctx.Done():
		logger.Printf("Shutting down")
	case err = <-errCh:
		if err != nil {
			logger.Printf("Serve failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	registry.Shutdown(shutdownCtx)
	if grpcServer != nil {
		grpcServer.Stop()
	}
	return err
}

// autoLaunchTunnelAgent errors are only logged.
func autoLaunchTunnelAgent(registry *runner.Registry) {
	agent, err := registry.EnsureTunnelAgentStarted()
	if err != nil {
		logger.Printf("Tunnel agent auto-launch failed: %v", err)
		return
	}
	logger.Printf("Tunnel agent %q launched", agent.Name)
}
