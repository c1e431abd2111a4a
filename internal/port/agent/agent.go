package agent

import (
	"context"

	domainagent "github.com/alanyang/support-router/internal/domain/agent"
)

// Repository manages support agent records.
type Repository interface {
	Upsert(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error)
	Get(ctx context.Context, tenantID, userID string) (domainagent.Agent, error)
	List(ctx context.Context, filters domainagent.ListFilters) ([]domainagent.Agent, error)
	UpdateStatus(ctx context.Context, tenantID, userID string, status domainagent.Status) error
	// JoinQueue adds or repositions the agent in a queue. groupKey "" is the
	// tenant default queue.
	JoinQueue(ctx context.Context, tenantID, groupKey, userID string, position int) error
	LeaveQueue(ctx context.Context, tenantID, groupKey, userID string) error
}
