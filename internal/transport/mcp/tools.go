package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainagent "github.com/alanyang/support-router/internal/domain/agent"
	agentsvc "github.com/alanyang/support-router/internal/service/agent"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"
)

// RegisterTools registers all MCP tools on the server.
// [SRP] Tool registration only.
// [OCP] Add a new tool by adding a new AddTool call. server.go never changes.
func RegisterTools(
	s *mcpserver.MCPServer,
	reg *SessionRegistry,
	assignSvc *assignsvc.Service,
	agentSvc *agentsvc.Service,
) {
	s.AddTool(mcpmcp.NewTool("register_agent",
		mcpmcp.WithDescription("Register this support agent and mark it online. Assignment notifications for the agent are pushed on this session."),
		mcpmcp.WithString("tenant_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("user_id", mcpmcp.Required(), mcpmcp.Description("Agent user id within the tenant")),
		mcpmcp.WithString("name", mcpmcp.Description("Display name")),
		mcpmcp.WithNumber("max_concurrent", mcpmcp.Required(), mcpmcp.Description("Maximum open conversations the agent accepts")),
	), registerAgentHandler(reg, agentSvc))

	s.AddTool(mcpmcp.NewTool("set_status",
		mcpmcp.WithDescription("Change the agent's presence. Only online agents are offered conversations."),
		mcpmcp.WithString("tenant_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("user_id", mcpmcp.Required(), mcpmcp.Description("Agent user id")),
		mcpmcp.WithString("status", mcpmcp.Required(), mcpmcp.Description("One of: online, away, offline")),
	), setStatusHandler(agentSvc))

	s.AddTool(mcpmcp.NewTool("assign_conversation",
		mcpmcp.WithDescription("Pick an agent for a conversation in a tenant queue. The decision is advisory; it returns assigned=false when every agent is at capacity."),
		mcpmcp.WithString("tenant_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("conversation_id", mcpmcp.Required(), mcpmcp.Description("Conversation identifier")),
		mcpmcp.WithString("group_key", mcpmcp.Description("Queue key. Empty means the tenant default queue.")),
		mcpmcp.WithString("last_agent_user_id", mcpmcp.Description("Agent that received the previous conversation in this queue")),
	), assignConversationHandler(assignSvc))

	s.AddTool(mcpmcp.NewTool("resolve_strategy",
		mcpmcp.WithDescription("Report the assignment strategy in force for a tenant queue."),
		mcpmcp.WithString("tenant_id", mcpmcp.Required(), mcpmcp.Description("Tenant identifier")),
		mcpmcp.WithString("group_key", mcpmcp.Description("Queue key. Empty means the tenant default queue.")),
	), resolveStrategyHandler(assignSvc))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

func registerAgentHandler(reg *SessionRegistry, agentSvc *agentsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		tenantID := mcpmcp.ParseString(req, "tenant_id", "")
		userID := mcpmcp.ParseString(req, "user_id", "")
		name := mcpmcp.ParseString(req, "name", "")
		maxConcurrent := mcpmcp.ParseInt(req, "max_concurrent", 0)

		agent, err := agentSvc.Register(ctx, tenantID, userID, name, maxConcurrent)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		if session := mcpserver.ClientSessionFromContext(ctx); session != nil {
			reg.Register(session.SessionID(), agent.TenantID, agent.UserID)
		}

		data, _ := json.Marshal(agent)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func setStatusHandler(agentSvc *agentsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		tenantID := mcpmcp.ParseString(req, "tenant_id", "")
		userID := mcpmcp.ParseString(req, "user_id", "")
		status := domainagent.Status(mcpmcp.ParseString(req, "status", ""))

		if err := agentSvc.SetStatus(ctx, tenantID, userID, status); err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return mcpmcp.NewToolResultText(`{"ok":true}`), nil
	}
}

func assignConversationHandler(assignSvc *assignsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		conversationID := mcpmcp.ParseString(req, "conversation_id", "")
		if conversationID == "" {
			return mcpmcp.NewToolResultText("error: conversation_id required"), nil
		}

		d, err := assignSvc.Route(ctx, assignsvc.RouteRequest{
			TenantID:        mcpmcp.ParseString(req, "tenant_id", ""),
			GroupKey:        mcpmcp.ParseString(req, "group_key", ""),
			ConversationID:  conversationID,
			LastAgentUserID: mcpmcp.ParseString(req, "last_agent_user_id", ""),
		})
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		data, _ := json.Marshal(d)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func resolveStrategyHandler(assignSvc *assignsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		res, err := assignSvc.ResolveStrategy(ctx,
			mcpmcp.ParseString(req, "tenant_id", ""),
			mcpmcp.ParseString(req, "group_key", ""),
		)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		data, _ := json.Marshal(map[string]any{
			"strategy":  res.Key,
			"fallback":  res.Fallback(),
			"requested": res.Requested,
		})
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}
