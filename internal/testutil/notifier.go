//go:build integration

package testutil

import (
	"context"
	"sync"
)

// NotifyCall records a single notification delivered by CaptureNotifier.
type NotifyCall struct {
	TenantID string
	UserID   string
	Event    any
}

// CaptureNotifier is a test double for port/notifier.AgentNotifier.
// It records every call with a mutex so it is safe for concurrent use.
type CaptureNotifier struct {
	mu    sync.Mutex
	Calls []NotifyCall
}

func (c *CaptureNotifier) NotifyAgent(_ context.Context, tenantID, userID string, event any) error {
	c.mu.Lock()
	c.Calls = append(c.Calls, NotifyCall{TenantID: tenantID, UserID: userID, Event: event})
	c.mu.Unlock()
	return nil
}

// AgentNotifications returns all calls made for one agent.
func (c *CaptureNotifier) AgentNotifications(tenantID, userID string) []NotifyCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []NotifyCall
	for _, call := range c.Calls {
		if call.TenantID == tenantID && call.UserID == userID {
			out = append(out, call)
		}
	}
	return out
}

func (c *CaptureNotifier) Reset() {
	c.mu.Lock()
	c.Calls = nil
	c.mu.Unlock()
}
