package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainagent "github.com/alanyang/support-router/internal/domain/agent"
	"github.com/alanyang/support-router/internal/domain/assignment"
	portagent "github.com/alanyang/support-router/internal/port/agent"
	portassign "github.com/alanyang/support-router/internal/port/assignment"
)

var (
	_ portagent.Repository         = (*Repository)(nil)
	_ portassign.CandidateProvider = (*Repository)(nil)
	_ portassign.LoadProvider      = (*Repository)(nil)
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const agentColumns = `tenant_id, user_id, name, status, max_concurrent, created_at`

func (r *Repository) Upsert(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error) {
	query := `
		INSERT INTO support_agents (` + agentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (tenant_id, user_id) DO UPDATE
			SET name = EXCLUDED.name, max_concurrent = EXCLUDED.max_concurrent, status = EXCLUDED.status
		RETURNING ` + agentColumns

	return r.scanOne(ctx, query,
		a.TenantID, a.UserID, a.Name, string(a.Status), a.MaxConcurrent, a.CreatedAt,
	)
}

func (r *Repository) Get(ctx context.Context, tenantID, userID string) (domainagent.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM support_agents WHERE tenant_id = $1 AND user_id = $2`
	return r.scanOne(ctx, query, tenantID, userID)
}

func (r *Repository) List(ctx context.Context, filters domainagent.ListFilters) ([]domainagent.Agent, error) {
	query := `SELECT a.tenant_id, a.user_id, a.name, a.status, a.max_concurrent, a.created_at
		FROM support_agents a WHERE a.tenant_id = $1`

	args := []interface{}{filters.TenantID}
	argIdx := 2

	if filters.GroupKey != nil {
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM queue_members m
			WHERE m.tenant_id = a.tenant_id AND m.user_id = a.user_id AND m.group_key = $%d)`, argIdx)
		args = append(args, *filters.GroupKey)
		argIdx++
	}
	if filters.Status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, string(*filters.Status))
		argIdx++
	}

	query += " ORDER BY a.created_at, a.user_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	var agents []domainagent.Agent
	for rows.Next() {
		var a domainagent.Agent
		if err := rows.Scan(&a.TenantID, &a.UserID, &a.Name, &a.Status, &a.MaxConcurrent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning agent row: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, tenantID, userID string, status domainagent.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE support_agents SET status = $1 WHERE tenant_id = $2 AND user_id = $3`,
		string(status), tenantID, userID)
	if err != nil {
		return fmt.Errorf("updating agent status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agent %s/%s: %w", tenantID, userID, domainagent.ErrNotFound)
	}
	return nil
}

func (r *Repository) JoinQueue(ctx context.Context, tenantID, groupKey, userID string, position int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO queue_members (tenant_id, group_key, user_id, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, group_key, user_id) DO UPDATE SET position = EXCLUDED.position`,
		tenantID, groupKey, userID, position)
	if err != nil {
		return fmt.Errorf("joining queue %q: %w", groupKey, err)
	}
	return nil
}

func (r *Repository) LeaveQueue(ctx context.Context, tenantID, groupKey, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM queue_members WHERE tenant_id = $1 AND group_key = $2 AND user_id = $3`,
		tenantID, groupKey, userID)
	if err != nil {
		return fmt.Errorf("leaving queue %q: %w", groupKey, err)
	}
	return nil
}

// ListCandidates returns the online members of a queue in rotation order.
func (r *Repository) ListCandidates(ctx context.Context, tenantID, groupKey string) ([]assignment.Candidate, error) {
	query := `
		SELECT a.user_id, a.max_concurrent
		FROM queue_members m
		JOIN support_agents a ON a.tenant_id = m.tenant_id AND a.user_id = m.user_id
		WHERE m.tenant_id = $1 AND m.group_key = $2 AND a.status = 'online'
		ORDER BY m.position, a.created_at, a.user_id`

	rows, err := r.pool.Query(ctx, query, tenantID, groupKey)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	defer rows.Close()

	var out []assignment.Candidate
	for rows.Next() {
		var c assignment.Candidate
		if err := rows.Scan(&c.UserID, &c.MaxConcurrent); err != nil {
			return nil, fmt.Errorf("scanning candidate row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ActiveLoads counts open conversations per assignee. Agents without open
// conversations are absent from the result.
func (r *Repository) ActiveLoads(ctx context.Context, tenantID string, userIDs []string) (map[string]int, error) {
	loads := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return loads, nil
	}

	query := `
		SELECT assignee_user_id, COUNT(*)
		FROM conversations
		WHERE tenant_id = $1 AND status = 'open' AND assignee_user_id = ANY($2)
		GROUP BY assignee_user_id`

	rows, err := r.pool.Query(ctx, query, tenantID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("counting active loads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scanning load row: %w", err)
		}
		loads[id] = n
	}
	return loads, rows.Err()
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...interface{}) (domainagent.Agent, error) {
	var a domainagent.Agent
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.TenantID, &a.UserID, &a.Name, &a.Status, &a.MaxConcurrent, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainagent.Agent{}, domainagent.ErrNotFound
		}
		return domainagent.Agent{}, fmt.Errorf("querying agent: %w", err)
	}
	return a, nil
}
