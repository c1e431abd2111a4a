package agent

import (
	"errors"
	"time"

	"github.com/alanyang/support-router/internal/domain/assignment"
)

var ErrNotFound = errors.New("agent not found")

type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusOffline:
		return true
	}
	return false
}

// Agent is a support agent as known to the routing tables. Only online agents
// are offered as assignment candidates.
type Agent struct {
	TenantID      string    `json:"tenant_id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	MaxConcurrent int       `json:"max_concurrent"`
	CreatedAt     time.Time `json:"created_at"`
}

func New(tenantID, userID, name string, maxConcurrent int) Agent {
	return Agent{
		TenantID:      tenantID,
		UserID:        userID,
		Name:          name,
		Status:        StatusOffline,
		MaxConcurrent: maxConcurrent,
		CreatedAt:     time.Now().UTC(),
	}
}

func (a Agent) Candidate() assignment.Candidate {
	return assignment.Candidate{UserID: a.UserID, MaxConcurrent: a.MaxConcurrent}
}

type ListFilters struct {
	TenantID string
	GroupKey *string
	Status   *Status
}
