package main

import (
	"context"
	"slices"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type spiffeIdContextKey struct{}

func extractSpiffeIdFromContext(ctx context.Context) *string {
	if v := ctx.Value(spiffeIdContextKey{}); v != nil {
		if spiffeId, ok := v.(string); ok {
			return &spiffeId
		}
	}
	return nil
}

func extractSpiffeIdFromTls(ctx context.Context) *string {
	// First, check if it was already injected into context.
	if v := extractSpiffeIdFromContext(ctx); v != nil {
		return v
	}

	p, ok := peer.FromContext(ctx)
	if !ok || p == nil {
		return nil
	}

	ti, ok := p.AuthInfo.(credentials.TLSInfo)
	if !ok {
		return nil
	}

	state := ti.State
	if len(state.PeerCertificates) == 0 || state.PeerCertificates[0] == nil {
		return nil
	}

	// spiffe://operator1 -> "operator1"
	for _, uri := range state.PeerCertificates[0].URIs {
		if uri != nil && uri.Scheme == "spiffe" {
			return &uri.Host
		}
	}

	return nil
}

func injectSpiffeId(ctx context.Context, spiffeId string) context.Context {
	return context.WithValue(ctx, spiffeIdContextKey{}, spiffeId)
}

// injectSpiffeIdUnary extracts the SPIFFE ID from the TLS certificate.
func injectSpiffeIdUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	spiffeId := extractSpiffeIdFromTls(ctx)
	if spiffeId == nil {
		return nil, status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}

	return handler(injectSpiffeId(ctx, *spiffeId), req)
}

type streamWithCtx struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *streamWithCtx) Context() context.Context { return s.ctx }

// injectSpiffeIdStream extracts the SPIFFE ID from the TLS certificate.
func injectSpiffeIdStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx := ss.Context()

	spiffeId := extractSpiffeIdFromTls(ctx)
	if spiffeId == nil {
		return status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}

	return handler(srv, &streamWithCtx{ServerStream: ss, ctx: injectSpiffeId(ctx, *spiffeId)})
}

// checkOperator guards the calls that change process state. Read-only calls
// are open to every authenticated client.
func (s *ServerLauncherServiceServer) checkOperator(ctx context.Context) error {
	spiffeId := extractSpiffeIdFromContext(ctx)
	if spiffeId == nil {
		return status.Error(codes.Unauthenticated, "client must have SPIFFE ID")
	}

	if len(s.operators) == 0 || slices.Contains(s.operators, *spiffeId) {
		return nil
	}

	return status.Errorf(codes.PermissionDenied, "%s is not allowed to operate servers", *spiffeId)
}
