package mcp

import (
	"context"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	agentsvc "github.com/alanyang/support-router/internal/service/agent"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// [SRP] HTTP/SSE server lifecycle only (start, stop, session open/close).
//
//	Tools are registered in tools.go, session state lives in registry.go.
type Server struct {
	httpSrv      *mcpserver.StreamableHTTPServer
	reg          *SessionRegistry
	onDisconnect DisconnectFunc
}

// DisconnectFunc is told which agent lost its session. It must not block.
type DisconnectFunc func(ctx context.Context, tenantID, userID string)

// New creates the MCP transport server. reg is built before the assignment
// service in the wire because it doubles as the agent notifier. A nil
// onDisconnect marks the agent offline immediately.
func New(reg *SessionRegistry, assignSvc *assignsvc.Service, agentSvc *agentsvc.Service, onDisconnect DisconnectFunc) *Server {
	if onDisconnect == nil {
		onDisconnect = func(ctx context.Context, tenantID, userID string) {
			go agentSvc.MarkOffline(context.WithoutCancel(ctx), tenantID, userID)
		}
	}
	s := &Server{
		reg:          reg,
		onDisconnect: onDisconnect,
	}

	hooks := &mcpserver.Hooks{}
	hooks.OnUnregisterSession = append(hooks.OnUnregisterSession, s.onSessionClose)

	mcpSrv := mcpserver.NewMCPServer(
		"support-router",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithHooks(hooks),
	)

	reg.SetMCPServer(mcpSrv)
	RegisterTools(mcpSrv, reg, assignSvc, agentSvc)

	s.httpSrv = mcpserver.NewStreamableHTTPServer(mcpSrv)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

func (s *Server) Registry() *SessionRegistry {
	return s.reg
}

func (s *Server) onSessionClose(ctx context.Context, session mcpserver.ClientSession) {
	tenantID, userID, ok := s.reg.Unregister(session.SessionID())
	if !ok {
		return
	}
	slog.InfoContext(ctx, "mcp: session closed",
		"session_id", session.SessionID(), "tenant_id", tenantID, "agent_user_id", userID)
	s.onDisconnect(ctx, tenantID, userID)
}
