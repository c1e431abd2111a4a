package assignment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/support-router/internal/adapter/memory"
	"github.com/alanyang/support-router/internal/domain/assignment"
	"github.com/alanyang/support-router/internal/domain/event"
	"github.com/alanyang/support-router/internal/mocks"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"
)

type serviceDeps struct {
	config     *mocks.MockTenantStrategyConfig
	candidates *mocks.MockCandidateProvider
	loads      *mocks.MockLoadProvider
	publisher  *mocks.MockPublisher
	notifier   *mocks.MockAgentNotifier
}

func newAssignSvc(t *testing.T) (*assignsvc.Service, serviceDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := serviceDeps{
		config:     mocks.NewMockTenantStrategyConfig(ctrl),
		candidates: mocks.NewMockCandidateProvider(ctrl),
		loads:      mocks.NewMockLoadProvider(ctrl),
		publisher:  mocks.NewMockPublisher(ctrl),
		notifier:   mocks.NewMockAgentNotifier(ctrl),
	}
	resolver := assignsvc.NewResolver(d.config, assignment.DefaultRegistry(), memory.NewCache[string](nil))
	return assignsvc.NewService(resolver, d.candidates, d.loads, d.publisher, d.notifier), d
}

func matchEventType(et event.Type) gomock.Matcher {
	return eventTypeMatcher{et}
}

type eventTypeMatcher struct{ want event.Type }

func (m eventTypeMatcher) Matches(x interface{}) bool {
	e, ok := x.(event.Event)
	return ok && e.Type == m.want
}
func (m eventTypeMatcher) String() string { return "event.Type=" + string(m.want) }

// ── Assign ────────────────────────────────────────────────────────────────────

func TestAssign(t *testing.T) {
	candidates := []assignment.Candidate{
		{UserID: "A", MaxConcurrent: 5},
		{UserID: "B", MaxConcurrent: 5},
		{UserID: "C", MaxConcurrent: 5},
	}
	loads := map[string]int{"A": 2, "B": 1, "C": 1}

	tests := []struct {
		name      string
		strategy  string
		last      string
		wantAgent string
	}{
		{"round robin after B", "round_robin", "B", "C"},
		{"least open first tie", "least_open", "", "B"},
		{"least open rotates", "least_open", "B", "C"},
		{"manual queues", "manual", "", ""},
		{"unknown key behaves as round robin", "skills_based", "A", "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newAssignSvc(t)
			d.config.EXPECT().Lookup(gomock.Any(), "acme", "billing").Return(tt.strategy, true, nil)

			got, err := svc.Assign(context.Background(), assignsvc.AssignRequest{
				TenantID:        "acme",
				GroupKey:        "billing",
				LastAgentUserID: tt.last,
				Candidates:      candidates,
				ActiveLoads:     loads,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAgent, got.AgentUserID)
			assert.Equal(t, tt.wantAgent != "", got.Assigned)
		})
	}
}

func TestAssign_NoCapacityIsNotAnError(t *testing.T) {
	svc, d := newAssignSvc(t)
	d.config.EXPECT().Lookup(gomock.Any(), "acme", "").Return("least_open", true, nil)

	got, err := svc.Assign(context.Background(), assignsvc.AssignRequest{
		TenantID:    "acme",
		Candidates:  []assignment.Candidate{{UserID: "A", MaxConcurrent: 1}},
		ActiveLoads: map[string]int{"A": 1},
	})
	require.NoError(t, err)
	assert.False(t, got.Assigned)
	assert.Empty(t, got.AgentUserID)
	assert.Equal(t, assignment.KeyLeastOpen, got.Strategy)
}

func TestAssign_InvalidCandidate(t *testing.T) {
	svc, _ := newAssignSvc(t)

	_, err := svc.Assign(context.Background(), assignsvc.AssignRequest{
		TenantID:   "acme",
		Candidates: []assignment.Candidate{{UserID: "A", MaxConcurrent: -1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, assignment.ErrInvalidArgument))
}

func TestAssign_DoesNotRetainCallerSlices(t *testing.T) {
	svc, d := newAssignSvc(t)
	d.config.EXPECT().Lookup(gomock.Any(), "acme", "").Return("round_robin", true, nil)

	candidates := []assignment.Candidate{{UserID: "A", MaxConcurrent: 1}, {UserID: "B", MaxConcurrent: 1}}
	loads := map[string]int{"A": 1}

	got, err := svc.Assign(context.Background(), assignsvc.AssignRequest{TenantID: "acme", Candidates: candidates, ActiveLoads: loads})
	require.NoError(t, err)
	assert.Equal(t, "B", got.AgentUserID)
	assert.Equal(t, []assignment.Candidate{{UserID: "A", MaxConcurrent: 1}, {UserID: "B", MaxConcurrent: 1}}, candidates)
	assert.Equal(t, map[string]int{"A": 1}, loads)
}

// ── Route ─────────────────────────────────────────────────────────────────────

func TestRoute_AssignsPublishesAndNotifies(t *testing.T) {
	svc, d := newAssignSvc(t)

	d.candidates.EXPECT().ListCandidates(gomock.Any(), "acme", "vip").Return([]assignment.Candidate{
		{UserID: "A", MaxConcurrent: 2},
		{UserID: "B", MaxConcurrent: 2},
	}, nil)
	d.loads.EXPECT().ActiveLoads(gomock.Any(), "acme", []string{"A", "B"}).Return(map[string]int{"A": 1}, nil)
	d.config.EXPECT().Lookup(gomock.Any(), "acme", "vip").Return("least_open", true, nil)
	d.publisher.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeConversationAssigned)).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			assert.Equal(t, "acme", e.TenantID)
			assert.Equal(t, "vip", e.GroupKey)
			assert.Equal(t, "conv-1", e.ConversationID)
			assert.Equal(t, "B", e.AgentUserID)
			assert.Equal(t, "least_open", e.Strategy)
			return nil
		})
	d.notifier.EXPECT().NotifyAgent(gomock.Any(), "acme", "B", gomock.Any()).Return(nil)

	got, err := svc.Route(context.Background(), assignsvc.RouteRequest{
		TenantID:       "acme",
		GroupKey:       "vip",
		ConversationID: "conv-1",
	})
	require.NoError(t, err)
	assert.True(t, got.Assigned)
	assert.Equal(t, "B", got.AgentUserID)
}

func TestRoute_QueuedWhenNoCandidates(t *testing.T) {
	svc, d := newAssignSvc(t)

	d.candidates.EXPECT().ListCandidates(gomock.Any(), "acme", "").Return(nil, nil)
	d.config.EXPECT().Lookup(gomock.Any(), "acme", "").Return("", false, nil)
	d.publisher.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeConversationQueued)).Return(nil)

	got, err := svc.Route(context.Background(), assignsvc.RouteRequest{TenantID: "acme", ConversationID: "conv-2"})
	require.NoError(t, err)
	assert.False(t, got.Assigned)
	assert.Equal(t, assignment.KeyRoundRobin, got.Strategy)
}

func TestRoute_PublishFailureDoesNotFailDecision(t *testing.T) {
	svc, d := newAssignSvc(t)

	d.candidates.EXPECT().ListCandidates(gomock.Any(), "acme", "").Return([]assignment.Candidate{{UserID: "A", MaxConcurrent: 1}}, nil)
	d.loads.EXPECT().ActiveLoads(gomock.Any(), "acme", []string{"A"}).Return(nil, nil)
	d.config.EXPECT().Lookup(gomock.Any(), "acme", "").Return("round_robin", true, nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("notify failed"))
	d.notifier.EXPECT().NotifyAgent(gomock.Any(), "acme", "A", gomock.Any()).Return(errors.New("session gone"))

	got, err := svc.Route(context.Background(), assignsvc.RouteRequest{TenantID: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "A", got.AgentUserID)
}

func TestRoute_Errors(t *testing.T) {
	t.Run("missing tenant", func(t *testing.T) {
		svc, _ := newAssignSvc(t)
		_, err := svc.Route(context.Background(), assignsvc.RouteRequest{})
		assert.True(t, errors.Is(err, assignment.ErrInvalidArgument))
	})

	t.Run("candidate provider fails", func(t *testing.T) {
		svc, d := newAssignSvc(t)
		d.candidates.EXPECT().ListCandidates(gomock.Any(), "acme", "").Return(nil, errors.New("db error"))
		_, err := svc.Route(context.Background(), assignsvc.RouteRequest{TenantID: "acme"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list candidates")
	})

	t.Run("load provider fails", func(t *testing.T) {
		svc, d := newAssignSvc(t)
		d.candidates.EXPECT().ListCandidates(gomock.Any(), "acme", "").Return([]assignment.Candidate{{UserID: "A", MaxConcurrent: 1}}, nil)
		d.loads.EXPECT().ActiveLoads(gomock.Any(), "acme", []string{"A"}).Return(nil, errors.New("db error"))
		_, err := svc.Route(context.Background(), assignsvc.RouteRequest{TenantID: "acme"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load active counts")
	})
}

func TestResolveStrategy(t *testing.T) {
	svc, d := newAssignSvc(t)
	d.config.EXPECT().Lookup(gomock.Any(), "acme", "vip").Return("leastopen", true, nil)

	res, err := svc.ResolveStrategy(context.Background(), "acme", "vip")
	require.NoError(t, err)
	assert.Equal(t, assignment.KeyLeastOpen, res.Key)
}
