package assignment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed or missing assignment context.
	ErrInvalidArgument = errors.New("assignment: invalid argument")
	// ErrConfiguration reports that no usable strategy is registered.
	ErrConfiguration = errors.New("assignment: configuration error")
)

// Candidate is an agent eligible for assignment along with its capacity ceiling.
type Candidate struct {
	UserID        string `json:"user_id"`
	MaxConcurrent int    `json:"max_concurrent"`
}

// Context is the snapshot a strategy evaluates. It is built fresh for every
// decision and must not be modified once handed to a strategy.
type Context struct {
	TenantID string `json:"tenant_id"`
	// GroupKey names the queue. Empty means the tenant's default queue.
	GroupKey string `json:"group_key,omitempty"`
	// LastAgentUserID is the agent who received the previous assignment in this
	// queue. Only used for rotation.
	LastAgentUserID string `json:"last_agent_user_id,omitempty"`
	// Candidates order matters for rotation.
	Candidates []Candidate `json:"candidates"`
	// ActiveLoads maps user id to the number of open assignments. Missing
	// entries count as zero.
	ActiveLoads map[string]int `json:"active_loads,omitempty"`
}

// Active returns the current load for userID.
func (c *Context) Active(userID string) int {
	if c.ActiveLoads == nil {
		return 0
	}
	return c.ActiveLoads[userID]
}

// HasCapacity reports whether cand can take one more conversation.
func (c *Context) HasCapacity(cand Candidate) bool {
	return c.Active(cand.UserID) < cand.MaxConcurrent
}

// Validate rejects snapshots no strategy can evaluate meaningfully.
func (c *Context) Validate() error {
	if c == nil {
		return fmt.Errorf("nil context: %w", ErrInvalidArgument)
	}
	for i, cand := range c.Candidates {
		if cand.UserID == "" {
			return fmt.Errorf("candidate %d: empty user id: %w", i, ErrInvalidArgument)
		}
		if cand.MaxConcurrent < 0 {
			return fmt.Errorf("candidate %q: negative max_concurrent: %w", cand.UserID, ErrInvalidArgument)
		}
	}
	for id, n := range c.ActiveLoads {
		if n < 0 {
			return fmt.Errorf("active load for %q is negative: %w", id, ErrInvalidArgument)
		}
	}
	return nil
}

func indexOf(candidates []Candidate, userID string) int {
	if userID == "" {
		return -1
	}
	for i, cand := range candidates {
		if cand.UserID == userID {
			return i
		}
	}
	return -1
}
