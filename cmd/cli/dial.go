package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

const defaultAddress = "localhost:50051"

func dial(ctx context.Context) (*grpc.ClientConn, error) {
	addr := os.Getenv("SL_ADDRESS")
	if strings.TrimSpace(addr) == "" {
		addr = defaultAddress
	}

	keyPEM := os.Getenv("SL_TLS_KEY")
	certPEM := os.Getenv("SL_TLS_CERT")
	caPEM := os.Getenv("SL_CA_TLS_CERT")
	if strings.TrimSpace(keyPEM) == "" || strings.TrimSpace(certPEM) == "" || strings.TrimSpace(caPEM) == "" {
		return nil, fmt.Errorf("missing TLS environment variables; require SL_TLS_KEY, SL_TLS_CERT, SL_CA_TLS_CERT")
	}

	cert, err := tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse TLS cert/key from env: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(caPEM)) {
		return nil, fmt.Errorf("failed to parse CA cert from env")
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS13,
	}

	return grpc.NewClient(addr, grpc.WithTransportCredentials(credentials.NewTLS(cfg)))
}

// withClient dials the daemon and runs fn with a service client.
func withClient(ctx context.Context, fn func(apiv1.ServerLauncherServiceClient) error) error {
	conn, err := dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(apiv1.NewServerLauncherServiceClient(conn))
}

// describeError turns daemon errors into messages for humans.
func describeError(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}
	switch st.Code() {
	case codes.NotFound:
		return "No such server. Use `sl list` to see configured servers."
	case codes.PermissionDenied:
		return "Forbidden. Only operators can change servers."
	case codes.Unauthenticated:
		return "Unauthenticated. The client certificate must carry a SPIFFE ID."
	case codes.Unimplemented:
		return "This server does not accept console commands."
	case codes.FailedPrecondition:
		return "The server is not running."
	case codes.InvalidArgument:
		return "Invalid request: " + st.Message()
	case codes.Unavailable:
		return "Daemon unavailable: " + st.Message()
	default:
		return st.Message()
	}
}
