package wire

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyang/support-router/internal/domain/event"
	porteventbus "github.com/alanyang/support-router/internal/port/eventbus"
)

// offlineReaper delays marking an agent offline after its MCP session drops.
// If the agent comes back online within the grace period the timer is
// cancelled, so a brief reconnect does not pull the agent out of rotation.
type offlineReaper struct {
	grace       time.Duration
	markOffline func(ctx context.Context, tenantID, userID string)

	mu     sync.Mutex
	timers map[string]*time.Timer // tenant/user → pending offline
}

// startReaper subscribes to the agent event channel so agent_online events
// cancel pending timers.
func startReaper(
	ctx context.Context,
	bus porteventbus.EventBus,
	grace time.Duration,
	markOffline func(ctx context.Context, tenantID, userID string),
) *offlineReaper {
	r := &offlineReaper{
		grace:       grace,
		markOffline: markOffline,
		timers:      make(map[string]*time.Timer),
	}

	if _, err := bus.Subscribe(ctx, event.ChannelAgent, func(_ context.Context, e event.Event) {
		if e.Type == event.TypeAgentOnline {
			r.cancel(e.TenantID, e.AgentUserID)
		}
	}); err != nil {
		slog.Error("reaper: failed to subscribe to agent channel", "error", err)
	}
	return r
}

// Disconnected schedules the agent to go offline after the grace period.
func (r *offlineReaper) Disconnected(_ context.Context, tenantID, userID string) {
	key := tenantID + "/" + userID

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(r.grace, func() {
		r.mu.Lock()
		if r.timers[key] != t {
			// Superseded by a later disconnect.
			r.mu.Unlock()
			return
		}
		delete(r.timers, key)
		r.mu.Unlock()

		r.markOffline(context.Background(), tenantID, userID)
	})
	r.timers[key] = t
}

func (r *offlineReaper) cancel(tenantID, userID string) {
	key := tenantID + "/" + userID

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[key]; ok {
		t.Stop()
		delete(r.timers, key)
		slog.Info("reaper: agent reconnected within grace", "tenant_id", tenantID, "agent_user_id", userID)
	}
}

func (r *offlineReaper) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
