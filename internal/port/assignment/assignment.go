package assignment

import (
	"context"
	"time"

	"github.com/alanyang/support-router/internal/domain/assignment"
)

// CandidateProvider returns the ordered candidate list for a queue.
// An empty groupKey means the tenant's default queue.
type CandidateProvider interface {
	ListCandidates(ctx context.Context, tenantID, groupKey string) ([]assignment.Candidate, error)
}

// LoadProvider returns the number of open assignments per agent.
// Agents with no open assignments may be omitted.
type LoadProvider interface {
	ActiveLoads(ctx context.Context, tenantID string, userIDs []string) (map[string]int, error)
}

// TenantStrategyConfig returns the raw strategy key configured for a tenant
// queue. ok is false when nothing is configured.
type TenantStrategyConfig interface {
	Lookup(ctx context.Context, tenantID, groupKey string) (key string, ok bool, err error)
}

// StrategyCache holds resolved strategy keys per tenant queue.
type StrategyCache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
}
