package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	portnotifier "github.com/alanyang/support-router/internal/port/notifier"
)

var _ portnotifier.AgentNotifier = (*SessionRegistry)(nil)

// sessionEntry tracks a connected support agent's identity.
type sessionEntry struct {
	tenantID string
	userID   string
}

func (e sessionEntry) key() string { return agentKey(e.tenantID, e.userID) }

func agentKey(tenantID, userID string) string { return tenantID + "/" + userID }

// SessionRegistry is the in-memory registry of active MCP sessions.
// It implements port/notifier.AgentNotifier.
//
// [SRP] Session storage and notification dispatch only.
// [DIP] The assignment service depends on the port interface, not this concrete type.
type SessionRegistry struct {
	mu         sync.RWMutex
	bySessions map[string]sessionEntry // sessionID → entry
	byAgent    map[string]string       // tenant/user → sessionID

	// mcpSrv is set after the MCP server is constructed.
	mcpMu  sync.RWMutex
	mcpSrv *mcpserver.MCPServer
}

// NewSessionRegistry creates a registry without an MCP server reference.
// Call SetMCPServer once the mcp-go server is constructed.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		bySessions: make(map[string]sessionEntry),
		byAgent:    make(map[string]string),
	}
}

func (r *SessionRegistry) SetMCPServer(s *mcpserver.MCPServer) {
	r.mcpMu.Lock()
	r.mcpSrv = s
	r.mcpMu.Unlock()
}

// Register maps a session to an agent. A newer session replaces the older one.
func (r *SessionRegistry) Register(sessionID, tenantID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := sessionEntry{tenantID: tenantID, userID: userID}
	if old, ok := r.byAgent[entry.key()]; ok {
		delete(r.bySessions, old)
	}
	r.bySessions[sessionID] = entry
	r.byAgent[entry.key()] = sessionID
}

// Unregister removes a session when it closes and reports which agent it held.
func (r *SessionRegistry) Unregister(sessionID string) (tenantID, userID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.bySessions[sessionID]
	if !ok {
		return "", "", false
	}
	delete(r.bySessions, sessionID)
	if r.byAgent[entry.key()] == sessionID {
		delete(r.byAgent, entry.key())
	}
	return entry.tenantID, entry.userID, true
}

// NotifyAgent implements port/notifier.AgentNotifier. Agents without a live
// session are skipped.
func (r *SessionRegistry) NotifyAgent(_ context.Context, tenantID, userID string, event any) error {
	r.mu.RLock()
	sessionID, ok := r.byAgent[agentKey(tenantID, userID)]
	r.mu.RUnlock()

	if !ok {
		return nil
	}

	r.mcpMu.RLock()
	srv := r.mcpSrv
	r.mcpMu.RUnlock()

	if srv == nil {
		return fmt.Errorf("mcp server not initialized")
	}

	params, err := toParams(event)
	if err != nil {
		return fmt.Errorf("serialize notification: %w", err)
	}

	return srv.SendNotificationToSpecificClient(sessionID, "notifications/message", params)
}

func (r *SessionRegistry) IsConnected(tenantID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byAgent[agentKey(tenantID, userID)]
	return ok
}

func toParams(event any) (map[string]any, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return map[string]any{"data": event}, nil
	}
	return params, nil
}
