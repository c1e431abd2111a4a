package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainagent "github.com/alanyang/support-router/internal/domain/agent"
	"github.com/alanyang/support-router/internal/domain/event"
	portagent "github.com/alanyang/support-router/internal/port/agent"
	portbus "github.com/alanyang/support-router/internal/port/eventbus"
)

var ErrInvalidAgent = errors.New("invalid agent")

// Service manages support agent presence: registration and status changes.
// [SRP] Presence only. Which agent gets a conversation is the assignment service's job.
type Service struct {
	repo portagent.Repository
	bus  portbus.Publisher
}

func NewService(repo portagent.Repository, bus portbus.Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// Register creates or refreshes an agent record and marks it online.
func (s *Service) Register(ctx context.Context, tenantID, userID, name string, maxConcurrent int) (domainagent.Agent, error) {
	if tenantID == "" || userID == "" {
		return domainagent.Agent{}, fmt.Errorf("register agent: tenant and user id required: %w", ErrInvalidAgent)
	}
	if maxConcurrent < 0 {
		return domainagent.Agent{}, fmt.Errorf("register agent: negative max_concurrent: %w", ErrInvalidAgent)
	}

	a := domainagent.New(tenantID, userID, name, maxConcurrent)
	a.Status = domainagent.StatusOnline

	saved, err := s.repo.Upsert(ctx, a)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("register agent: %w", err)
	}

	s.publish(ctx, event.TypeAgentOnline, saved)
	return saved, nil
}

func (s *Service) Get(ctx context.Context, tenantID, userID string) (domainagent.Agent, error) {
	a, err := s.repo.Get(ctx, tenantID, userID)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, filters domainagent.ListFilters) ([]domainagent.Agent, error) {
	agents, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// SetStatus changes presence. Only online agents are offered as candidates.
func (s *Service) SetStatus(ctx context.Context, tenantID, userID string, status domainagent.Status) error {
	if !status.Valid() {
		return fmt.Errorf("set agent status %q: %w", status, ErrInvalidAgent)
	}
	if err := s.repo.UpdateStatus(ctx, tenantID, userID, status); err != nil {
		return fmt.Errorf("set agent status: %w", err)
	}

	typ := event.TypeAgentOffline
	if status == domainagent.StatusOnline {
		typ = event.TypeAgentOnline
	}
	s.publish(ctx, typ, domainagent.Agent{TenantID: tenantID, UserID: userID})
	return nil
}

// JoinQueue makes the agent a candidate for groupKey. Lower positions are
// offered first in rotation order.
func (s *Service) JoinQueue(ctx context.Context, tenantID, groupKey, userID string, position int) error {
	if tenantID == "" || userID == "" {
		return fmt.Errorf("join queue: tenant and user id required: %w", ErrInvalidAgent)
	}
	if err := s.repo.JoinQueue(ctx, tenantID, groupKey, userID, position); err != nil {
		return fmt.Errorf("join queue: %w", err)
	}
	return nil
}

func (s *Service) LeaveQueue(ctx context.Context, tenantID, groupKey, userID string) error {
	if err := s.repo.LeaveQueue(ctx, tenantID, groupKey, userID); err != nil {
		return fmt.Errorf("leave queue: %w", err)
	}
	return nil
}

// MarkOffline is called when an agent's session closes.
func (s *Service) MarkOffline(ctx context.Context, tenantID, userID string) {
	if err := s.SetStatus(ctx, tenantID, userID, domainagent.StatusOffline); err != nil {
		slog.ErrorContext(ctx, "failed to mark agent offline", "tenant_id", tenantID, "agent_user_id", userID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, typ event.Type, a domainagent.Agent) {
	e := event.New(typ, a.TenantID)
	e.AgentUserID = a.UserID
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish agent event", "type", typ, "agent_user_id", a.UserID, "error", err)
	}
}
