package main

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"google.golang.org/grpc/status"

	protov1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

// mcpClientId is recorded as the starter of processes started over MCP.
const mcpClientId = "mcp-stdio"

// mcpTools exposes the launcher service as MCP tools. Every call goes through
// the same handlers as gRPC.
type mcpTools struct {
	svc *ServerLauncherServiceServer
}

func newMCPServer(svc *ServerLauncherServiceServer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"server-launcher",
		version,
		server.WithToolCapabilities(false),
	)
	t := &mcpTools{svc: svc}

	idArg := mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Server config id (see list_servers)"),
	)

	s.AddTool(mcp.NewTool("list_servers",
		mcp.WithDescription("List every configured server with its status, runtime details and uptime"),
	), t.handleList)

	s.AddTool(mcp.NewTool("start_server",
		mcp.WithDescription("Start a server. Starting a running server is a no-op"),
		idArg,
	), t.handleStart)

	s.AddTool(mcp.NewTool("stop_server",
		mcp.WithDescription("Stop a server gracefully, or kill it at once with force"),
		idArg,
		mcp.WithBoolean("force",
			mcp.Description("Kill the process tree immediately (default: false)"),
		),
	), t.handleStop)

	s.AddTool(mcp.NewTool("send_command",
		mcp.WithDescription("Write one console line to a running Java server"),
		idArg,
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Console command, e.g. 'say hello'"),
		),
	), t.handleSendCommand)

	s.AddTool(mcp.NewTool("server_status",
		mcp.WithDescription("Get the status of one server"),
		idArg,
	), t.handleStatus)

	s.AddTool(mcp.NewTool("get_log",
		mcp.WithDescription("Get the retained console output of a server"),
		idArg,
	), t.handleGetLog)

	return s
}

func (t *mcpTools) context(ctx context.Context) context.Context {
	return injectSpiffeId(ctx, mcpClientId)
}

func (t *mcpTools) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.svc.ListServers(t.context(ctx), &protov1.ListServersRequest{})
	return jsonResult(resp, err)
}

func (t *mcpTools) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing or invalid 'id' argument"), nil
	}
	resp, err := t.svc.Start(t.context(ctx), &protov1.StartRequest{Id: id})
	return jsonResult(resp, err)
}

func (t *mcpTools) handleStop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing or invalid 'id' argument"), nil
	}
	force := request.GetBool("force", false)
	resp, err := t.svc.Stop(t.context(ctx), &protov1.StopRequest{Id: id, Force: force})
	return jsonResult(resp, err)
}

func (t *mcpTools) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing or invalid 'id' argument"), nil
	}
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError("Missing or invalid 'command' argument"), nil
	}
	if _, err := t.svc.SendCommand(t.context(ctx), &protov1.SendCommandRequest{Id: id, Command: command}); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText("sent"), nil
}

func (t *mcpTools) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing or invalid 'id' argument"), nil
	}
	resp, err := t.svc.Status(t.context(ctx), &protov1.StatusRequest{Id: id})
	return jsonResult(resp, err)
}

func (t *mcpTools) handleGetLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing or invalid 'id' argument"), nil
	}
	resp, err := t.svc.GetLog(t.context(ctx), &protov1.GetLogRequest{Id: id})
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(resp.Text), nil
}

func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err), nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func toolError(err error) *mcp.CallToolResult {
	if st, ok := status.FromError(err); ok {
		return mcp.NewToolResultError(st.Message())
	}
	return mcp.NewToolResultError(err.Error())
}
