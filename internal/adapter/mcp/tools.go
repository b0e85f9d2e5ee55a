package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/service"
)

// registerTools mirrors the assistant's tool registry onto the MCP server.
// The JSON schema of each tool is reused as-is.
func (s *Server) registerTools(tools []service.Tool) {
	serverTools := make([]mcpserver.ServerTool, 0, len(tools))
	for _, t := range tools {
		schema, err := json.Marshal(t.Parameters())
		if err != nil {
			s.logger.Error("mcp: skipping tool with unencodable schema", "tool", t.Name(), "error", err)
			continue
		}
		serverTools = append(serverTools, mcpserver.ServerTool{
			Tool:    mcplib.NewToolWithRawSchema(t.Name(), t.Description(), schema),
			Handler: s.toolHandler(t),
		})
	}
	s.mcpServer.AddTools(serverTools...)
}

func (s *Server) toolHandler(t service.Tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcplib.NewToolResultErrorFromErr("failed to encode arguments", err), nil
		}

		ctx = user.WithActor(ctx, s.cfg.ServiceActor)
		out, err := t.Call(ctx, args)
		if err != nil {
			return mcplib.NewToolResultErrorFromErr("tool call failed", err), nil
		}

		data, err := json.Marshal(out)
		if err != nil {
			return mcplib.NewToolResultErrorFromErr("failed to encode result", err), nil
		}
		return mcplib.NewToolResultText(string(data)), nil
	}
}
