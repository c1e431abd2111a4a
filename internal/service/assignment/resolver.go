package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyang/support-router/internal/domain/assignment"
	portassign "github.com/alanyang/support-router/internal/port/assignment"
)

// DefaultCacheTTL bounds how stale a resolved tenant policy may be.
const DefaultCacheTTL = 5000 * time.Millisecond

const (
	cacheKeySep       = "::"
	defaultGroupToken = "__default__"
)

// Resolution is the outcome of mapping a tenant queue to a strategy.
type Resolution struct {
	Key      assignment.Key
	Strategy assignment.Strategy
	// Requested is set when Key is a round_robin substitute for an
	// unregistered key.
	Requested assignment.Key
}

// Fallback reports whether the configured key was unknown and replaced.
func (r Resolution) Fallback() bool { return r.Requested != "" }

// Resolver maps (tenant, queue) to a Strategy through a short-lived cache.
// [DIP] Depends on the config and cache ports, not on Postgres or YAML.
type Resolver struct {
	config     portassign.TenantStrategyConfig
	registry   *assignment.Registry
	cache      portassign.StrategyCache
	defaultKey assignment.Key
	ttl        time.Duration
}

type ResolverOption func(*Resolver)

// WithDefaultKey sets the global default used for blank tenants and queues
// with no configured policy.
func WithDefaultKey(raw string) ResolverOption {
	return func(r *Resolver) { r.defaultKey = assignment.NormalizeKey(raw) }
}

func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func NewResolver(
	config portassign.TenantStrategyConfig,
	registry *assignment.Registry,
	cache portassign.StrategyCache,
	opts ...ResolverOption,
) *Resolver {
	r := &Resolver{
		config:     config,
		registry:   registry,
		cache:      cache,
		defaultKey: assignment.KeyRoundRobin,
		ttl:        DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// slotEscaper keeps the separator out of ids. '%' is escaped too, so a bare
// '%' never comes out of it and can mark a queue literally named like the
// default token.
var slotEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// CacheKey is the cache slot for a tenant queue. Distinct (tenant, queue)
// pairs always get distinct slots.
func CacheKey(tenantID, groupKey string) string {
	group := defaultGroupToken
	switch {
	case strings.TrimSpace(groupKey) == "":
	case groupKey == defaultGroupToken:
		group = "%" + defaultGroupToken
	default:
		group = slotEscaper.Replace(groupKey)
	}
	return slotEscaper.Replace(tenantID) + cacheKeySep + group
}

// Resolve picks the strategy for actx's tenant and queue.
func (r *Resolver) Resolve(ctx context.Context, actx *assignment.Context) (Resolution, error) {
	if actx == nil {
		return Resolution{}, fmt.Errorf("resolve strategy: nil context: %w", assignment.ErrInvalidArgument)
	}
	if strings.TrimSpace(actx.TenantID) == "" {
		return r.fromRegistry(ctx, actx, r.defaultKey)
	}

	slot := CacheKey(actx.TenantID, actx.GroupKey)
	if cached, ok := r.cache.Get(slot); ok {
		return r.fromRegistry(ctx, actx, assignment.Key(cached))
	}

	raw, found, err := r.config.Lookup(ctx, actx.TenantID, actx.GroupKey)
	if err != nil {
		// Not cached so the next decision retries the lookup.
		slog.ErrorContext(ctx, "tenant strategy lookup failed, using default",
			"tenant_id", actx.TenantID, "group_key", actx.GroupKey, "default", r.defaultKey, "error", err)
		return r.fromRegistry(ctx, actx, r.defaultKey)
	}
	key := r.defaultKey
	if found {
		key = assignment.NormalizeKey(raw)
	}

	res, err := r.fromRegistry(ctx, actx, key)
	if err != nil {
		return Resolution{}, err
	}
	r.cache.Set(slot, string(res.Key), r.ttl)
	return res, nil
}

func (r *Resolver) fromRegistry(ctx context.Context, actx *assignment.Context, key assignment.Key) (Resolution, error) {
	if s, ok := r.registry.Lookup(key); ok {
		return Resolution{Key: key, Strategy: s}, nil
	}

	s, ok := r.registry.Lookup(assignment.KeyRoundRobin)
	if !ok {
		return Resolution{}, fmt.Errorf("resolve strategy %q for tenant %q: %s not registered: %w",
			key, actx.TenantID, assignment.KeyRoundRobin, assignment.ErrConfiguration)
	}
	slog.WarnContext(ctx, "unknown assignment strategy, falling back",
		"tenant_id", actx.TenantID, "group_key", actx.GroupKey,
		"strategy", key, "fallback", assignment.KeyRoundRobin)
	return Resolution{Key: assignment.KeyRoundRobin, Strategy: s, Requested: key}, nil
}
