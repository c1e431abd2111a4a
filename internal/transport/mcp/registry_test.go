package mcp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	mcptransport "github.com/alanyang/support-router/internal/transport/mcp"
)

func TestRegistry_RegisterUnregister(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	reg.Register("session-1", "acme", "u1")
	assert.True(t, reg.IsConnected("acme", "u1"))
	assert.False(t, reg.IsConnected("globex", "u1"), "same user id in another tenant is a different agent")

	tenantID, userID, ok := reg.Unregister("session-1")
	assert.True(t, ok)
	assert.Equal(t, "acme", tenantID)
	assert.Equal(t, "u1", userID)
	assert.False(t, reg.IsConnected("acme", "u1"))
}

func TestRegistry_RegisterOverwritesPreviousSession(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	reg.Register("session-old", "acme", "u1")
	reg.Register("session-new", "acme", "u1")

	_, _, ok := reg.Unregister("session-old")
	assert.False(t, ok, "old session should not exist after re-register")
	assert.True(t, reg.IsConnected("acme", "u1"))
}

func TestRegistry_UnregisterNonExistentSession(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()
	_, _, ok := reg.Unregister("does-not-exist")
	assert.False(t, ok)
}

func TestRegistry_Reconnect(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	reg.Register("session-1", "acme", "u1")
	reg.Unregister("session-1")
	assert.False(t, reg.IsConnected("acme", "u1"))

	reg.Register("session-2", "acme", "u1")
	assert.True(t, reg.IsConnected("acme", "u1"), "agent should be connected after reconnect")
}

func TestNotifyAgent_AgentOffline_NoOp(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	err := reg.NotifyAgent(context.Background(), "acme", "u1", map[string]string{"event": "test"})
	assert.NoError(t, err, "NotifyAgent for disconnected agent must be a no-op")
}

func TestNotifyAgent_ConnectedWithoutServer(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()
	reg.Register("session-1", "acme", "u1")

	err := reg.NotifyAgent(context.Background(), "acme", "u1", map[string]string{"event": "test"})
	assert.Error(t, err)
}
