package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/runner"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestMCPTools(t *testing.T) {
	cfg := lib.NewExecutable("agent", "/usr/local/bin/playit")
	registry := runner.NewRegistry(lib.State{Servers: []lib.ProcessConfig{cfg}, Settings: lib.DefaultSettings()})
	tools := &mcpTools{svc: NewServerLauncherServiceServer(registry, nil)}
	ctx := context.Background()

	res, err := tools.handleList(ctx, toolRequest("list_servers", nil))
	if err != nil || res.IsError {
		t.Fatalf("list_servers failed: %v %+v", err, res)
	}
	var list protov1.ListServersResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &list); err != nil {
		t.Fatalf("list_servers returned invalid JSON: %v", err)
	}
	if len(list.Servers) != 1 || list.Servers[0].Config.Id != cfg.ID {
		t.Fatalf("unexpected servers %+v", list.Servers)
	}

	res, _ = tools.handleStatus(ctx, toolRequest("server_status", map[string]any{}))
	if !res.IsError || !strings.Contains(resultText(t, res), "'id'") {
		t.Fatalf("missing id must be reported, got %+v", res)
	}

	res, _ = tools.handleStatus(ctx, toolRequest("server_status", map[string]any{"id": "nope"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
		t.Fatalf("unknown id must be reported, got %q", resultText(t, res))
	}

	res, _ = tools.handleSendCommand(ctx, toolRequest("send_command", map[string]any{"id": cfg.ID, "command": "stop"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "console") {
		t.Fatalf("executables have no console, got %q", resultText(t, res))
	}

	res, _ = tools.handleGetLog(ctx, toolRequest("get_log", map[string]any{"id": cfg.ID}))
	if res.IsError || resultText(t, res) != "" {
		t.Fatalf("expected an empty log, got %+v", res)
	}
}
