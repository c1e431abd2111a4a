//go:build integration

package eventbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/support-router/internal/adapter/postgres/eventbus"
	"github.com/alanyang/support-router/internal/domain/event"
	"github.com/alanyang/support-router/internal/testutil"
)

type collector struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *collector) handle(_ context.Context, e event.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *collector) count(tenantID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.TenantID == tenantID {
			n++
		}
	}
	return n
}

func TestEventBus_SharedListener(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.New(pool)
	tenant := testutil.TenantID(t)

	var first, second collector
	subA, err := bus.Subscribe(ctx, event.ChannelAgent, first.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, event.ChannelAgent, second.handle)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeAgentOnline, tenant)))
	require.Eventually(t, func() bool {
		return first.count(tenant) == 1 && second.count(tenant) == 1
	}, 5*time.Second, 20*time.Millisecond)

	subA.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeAgentOffline, tenant)))
	require.Eventually(t, func() bool { return second.count(tenant) == 2 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, first.count(tenant))

	// Events on another channel never reach agent subscribers.
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeConversationQueued, tenant)))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, second.count(tenant))
}

func TestEventBus_ContextEndsSubscription(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	bus := eventbus.New(pool)
	tenant := testutil.TenantID(t)

	var got collector
	subCtx, cancel := context.WithCancel(context.Background())
	_, err := bus.Subscribe(subCtx, event.ChannelAssignment, got.handle)
	require.NoError(t, err)
	cancel()

	// Give the cancel hook time to release the listener, then resubscribe.
	time.Sleep(100 * time.Millisecond)
	var again collector
	sub, err := bus.Subscribe(context.Background(), event.ChannelAssignment, again.handle)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), event.New(event.TypeConversationAssigned, tenant)))
	require.Eventually(t, func() bool { return again.count(tenant) == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 0, got.count(tenant))
}
