package wire

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/support-router/internal/domain/event"
	"github.com/alanyang/support-router/internal/mocks"
	porteventbus "github.com/alanyang/support-router/internal/port/eventbus"
)

type offlineCalls struct {
	mu    sync.Mutex
	calls []string
}

func (o *offlineCalls) record(_ context.Context, tenantID, userID string) {
	o.mu.Lock()
	o.calls = append(o.calls, tenantID+"/"+userID)
	o.mu.Unlock()
}

func (o *offlineCalls) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.calls...)
}

func (o *offlineCalls) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

func newReaper(t *testing.T, grace time.Duration) (*offlineReaper, *offlineCalls, porteventbus.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockEventBus(ctrl)

	var handler porteventbus.Handler
	bus.EXPECT().Subscribe(gomock.Any(), event.ChannelAgent, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ event.Channel, h porteventbus.Handler) (porteventbus.Subscription, error) {
			handler = h
			return nil, nil
		})

	calls := &offlineCalls{}
	r := startReaper(context.Background(), bus, grace, calls.record)
	require.NotNil(t, handler)
	return r, calls, handler
}

func TestReaper_MarksOfflineAfterGrace(t *testing.T) {
	r, calls, _ := newReaper(t, 50*time.Millisecond)

	r.Disconnected(context.Background(), "acme", "u1")
	assert.Equal(t, 1, r.pending())

	require.Eventually(t, func() bool { return calls.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"acme/u1"}, calls.snapshot())
	assert.Equal(t, 0, r.pending())
}

func TestReaper_ReconnectCancels(t *testing.T) {
	r, calls, handler := newReaper(t, 50*time.Millisecond)

	r.Disconnected(context.Background(), "acme", "u1")

	online := event.New(event.TypeAgentOnline, "acme")
	online.AgentUserID = "u1"
	handler(context.Background(), online)

	assert.Equal(t, 0, r.pending())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, calls.count(), "reconnected agent must stay online")
}

func TestReaper_OfflineEventDoesNotCancel(t *testing.T) {
	r, _, handler := newReaper(t, time.Hour)

	r.Disconnected(context.Background(), "acme", "u1")

	offline := event.New(event.TypeAgentOffline, "acme")
	offline.AgentUserID = "u1"
	handler(context.Background(), offline)

	assert.Equal(t, 1, r.pending())
}

func TestReaper_RepeatedDisconnectKeepsOneTimer(t *testing.T) {
	r, _, _ := newReaper(t, time.Hour)

	r.Disconnected(context.Background(), "acme", "u1")
	r.Disconnected(context.Background(), "acme", "u1")
	r.Disconnected(context.Background(), "acme", "u2")

	assert.Equal(t, 2, r.pending())
}
