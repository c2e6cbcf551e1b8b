package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib/state"
)

const defaultAddress = "localhost:50051"

const (
	modeGRPC = "grpc"
	modeMCP  = "mcp"
)

// daemonConfig is read from SL_* environment variables.
type daemonConfig struct {
	Address        string
	TLSKey         string
	TLSCert        string
	CACert         string
	StateFile      string
	MetricsAddress string
	LogFile        string
	Mode           string
	// Operators lists the SPIFFE ids allowed to change process state.
	// Empty means every authenticated client is.
	Operators []string
}

func loadConfig() (daemonConfig, error) {
	cfg := daemonConfig{
		Address:        envOr("SL_ADDRESS", defaultAddress),
		TLSKey:         os.Getenv("SL_TLS_KEY"),
		TLSCert:        os.Getenv("SL_TLS_CERT"),
		CACert:         os.Getenv("SL_CA_TLS_CERT"),
		StateFile:      envOr("SL_STATE_FILE", state.DefaultFileName),
		MetricsAddress: strings.TrimSpace(os.Getenv("SL_METRICS_ADDRESS")),
		LogFile:        strings.TrimSpace(os.Getenv("SL_LOG_FILE")),
		Mode:           strings.ToLower(envOr("SL_MODE", modeGRPC)),
		Operators:      splitList(os.Getenv("SL_OPERATORS")),
	}

	switch cfg.Mode {
	case modeGRPC:
		if cfg.TLSKey == "" || cfg.TLSCert == "" || cfg.CACert == "" {
			return cfg, fmt.Errorf("missing TLS environment variables; require SL_TLS_KEY, SL_TLS_CERT, SL_CA_TLS_CERT")
		}
	case modeMCP:
	default:
		return cfg, fmt.Errorf("unknown SL_MODE %q; expected %q or %q", cfg.Mode, modeGRPC, modeMCP)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
