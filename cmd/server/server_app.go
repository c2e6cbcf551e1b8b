package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

// GRPCServer encapsulates TLS/mTLS configuration, gRPC server instance and listener.
type GRPCServer struct {
	lis net.Listener
	s   *grpc.Server
}

// NewGRPCServer constructs a gRPC server that requires client certs (mTLS),
// registers service, and prepares it to serve on cfg.Address.
func NewGRPCServer(cfg daemonConfig, service protov1.ServerLauncherServiceServer) (*GRPCServer, error) {
	cert, err := tls.X509KeyPair([]byte(cfg.TLSCert), []byte(cfg.TLSKey))
	if err != nil {
		return nil, fmt.Errorf("failed to load server key pair: %w", err)
	}

	caPool := x509.NewCertPool()
	if ok := caPool.AppendCertsFromPEM([]byte(cfg.CACert)); !ok {
		return nil, fmt.Errorf("failed to append CA certificate to pool")
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		ClientCAs:    caPool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(
		grpc.Creds(credentials.NewTLS(tlsConfig)),
		grpc.UnaryInterceptor(injectSpiffeIdUnary),
		grpc.StreamInterceptor(injectSpiffeIdStream),
	)
	protov1.RegisterServerLauncherServiceServer(s, service)

	return &GRPCServer{lis: lis, s: s}, nil
}

// Serve starts serving gRPC on the configured listener.
func (g *GRPCServer) Serve() error {
	return g.s.Serve(g.lis)
}

// Addr returns the network address the server is bound to.
func (g *GRPCServer) Addr() net.Addr { return g.lis.Addr() }

// Stop gracefully stops the gRPC server. Open Watch streams end when the
// registry shuts down.
func (g *GRPCServer) Stop() { g.s.GracefulStop() }
