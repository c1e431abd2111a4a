package assignment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyang/support-router/internal/domain/assignment"
	"github.com/alanyang/support-router/internal/domain/event"
	portassign "github.com/alanyang/support-router/internal/port/assignment"
	portbus "github.com/alanyang/support-router/internal/port/eventbus"
	portnotifier "github.com/alanyang/support-router/internal/port/notifier"
)

// AssignRequest is the snapshot a caller hands to Assign.
type AssignRequest struct {
	TenantID        string
	GroupKey        string
	LastAgentUserID string
	Candidates      []assignment.Candidate
	ActiveLoads     map[string]int
}

// RouteRequest asks the service to gather the snapshot itself.
type RouteRequest struct {
	TenantID        string
	GroupKey        string
	ConversationID  string
	LastAgentUserID string
}

// Decision is advisory: the chosen agent's capacity may change before the
// caller applies it, so the caller must re-check load at apply time.
type Decision struct {
	AgentUserID string         `json:"agent_user_id,omitempty"`
	Assigned    bool           `json:"assigned"`
	Strategy    assignment.Key `json:"strategy"`
	Fallback    bool           `json:"fallback"`
}

// Service decides which agent receives a conversation.
// [SRP] Selects only. Applying the decision is the caller's job.
// [DIP] Depends on ports, never on adapters or transport.
type Service struct {
	resolver   *Resolver
	candidates portassign.CandidateProvider
	loads      portassign.LoadProvider
	publisher  portbus.Publisher
	notifier   portnotifier.AgentNotifier
}

func NewService(
	resolver *Resolver,
	candidates portassign.CandidateProvider,
	loads portassign.LoadProvider,
	publisher portbus.Publisher,
	notifier portnotifier.AgentNotifier,
) *Service {
	return &Service{
		resolver:   resolver,
		candidates: candidates,
		loads:      loads,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Assign resolves the tenant queue's strategy and evaluates it against the
// snapshot. A Decision with Assigned=false means the conversation stays queued.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (Decision, error) {
	actx := &assignment.Context{
		TenantID:        req.TenantID,
		GroupKey:        req.GroupKey,
		LastAgentUserID: req.LastAgentUserID,
		Candidates:      append([]assignment.Candidate(nil), req.Candidates...),
		ActiveLoads:     copyLoads(req.ActiveLoads),
	}
	if err := actx.Validate(); err != nil {
		return Decision{}, fmt.Errorf("assign: %w", err)
	}

	res, err := s.resolver.Resolve(ctx, actx)
	if err != nil {
		return Decision{}, fmt.Errorf("assign: %w", err)
	}

	d := Decision{Strategy: res.Key, Fallback: res.Fallback()}
	if picked, ok := res.Strategy.Select(actx); ok {
		d.AgentUserID = picked.UserID
		d.Assigned = true
	}
	return d, nil
}

// ResolveStrategy reports the strategy currently in force for a tenant queue.
func (s *Service) ResolveStrategy(ctx context.Context, tenantID, groupKey string) (Resolution, error) {
	return s.resolver.Resolve(ctx, &assignment.Context{TenantID: tenantID, GroupKey: groupKey})
}

// Route gathers candidates and loads for the queue, runs Assign, and
// announces the outcome. Publishing and notification failures are logged and
// never change the decision.
func (s *Service) Route(ctx context.Context, req RouteRequest) (Decision, error) {
	if req.TenantID == "" {
		return Decision{}, fmt.Errorf("route: tenant id required: %w", assignment.ErrInvalidArgument)
	}

	candidates, err := s.candidates.ListCandidates(ctx, req.TenantID, req.GroupKey)
	if err != nil {
		return Decision{}, fmt.Errorf("list candidates: %w", err)
	}

	var loads map[string]int
	if len(candidates) > 0 {
		ids := make([]string, 0, len(candidates))
		for _, c := range candidates {
			ids = append(ids, c.UserID)
		}
		loads, err = s.loads.ActiveLoads(ctx, req.TenantID, ids)
		if err != nil {
			return Decision{}, fmt.Errorf("load active counts: %w", err)
		}
	}

	d, err := s.Assign(ctx, AssignRequest{
		TenantID:        req.TenantID,
		GroupKey:        req.GroupKey,
		LastAgentUserID: req.LastAgentUserID,
		Candidates:      candidates,
		ActiveLoads:     loads,
	})
	if err != nil {
		return Decision{}, err
	}

	s.announce(ctx, req, d)
	return d, nil
}

func (s *Service) announce(ctx context.Context, req RouteRequest, d Decision) {
	typ := event.TypeConversationQueued
	if d.Assigned {
		typ = event.TypeConversationAssigned
	}
	e := event.New(typ, req.TenantID)
	e.GroupKey = req.GroupKey
	e.ConversationID = req.ConversationID
	e.AgentUserID = d.AgentUserID
	e.Strategy = string(d.Strategy)

	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish assignment event",
			"type", typ, "tenant_id", req.TenantID, "conversation_id", req.ConversationID, "error", err)
	}

	if !d.Assigned {
		return
	}
	if err := s.notifier.NotifyAgent(ctx, req.TenantID, d.AgentUserID, e); err != nil {
		slog.ErrorContext(ctx, "failed to notify assigned agent",
			"tenant_id", req.TenantID, "agent_user_id", d.AgentUserID, "error", err)
	}
}

func copyLoads(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
