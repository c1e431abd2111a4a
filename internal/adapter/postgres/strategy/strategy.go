package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portassign "github.com/alanyang/support-router/internal/port/assignment"
)

var _ portassign.TenantStrategyConfig = (*Repository)(nil)

// Repository reads per-tenant strategy overrides. A row with an empty
// group_key holds the tenant-wide policy; queue rows take precedence.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Lookup(ctx context.Context, tenantID, groupKey string) (string, bool, error) {
	query := `
		SELECT strategy_key FROM tenant_assignment_strategies
		WHERE tenant_id = $1 AND group_key IN ($2, '')
		ORDER BY (group_key = '') ASC
		LIMIT 1`

	var key string
	err := r.pool.QueryRow(ctx, query, tenantID, groupKey).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("looking up tenant strategy: %w", err)
	}
	return key, true, nil
}

// Set stores the strategy for a tenant queue. An empty groupKey sets the
// tenant-wide policy.
func (r *Repository) Set(ctx context.Context, tenantID, groupKey, strategyKey string) error {
	query := `
		INSERT INTO tenant_assignment_strategies (tenant_id, group_key, strategy_key, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant_id, group_key) DO UPDATE
			SET strategy_key = EXCLUDED.strategy_key, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, tenantID, groupKey, strategyKey); err != nil {
		return fmt.Errorf("storing tenant strategy: %w", err)
	}
	return nil
}
