package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeConversationAssigned Type = "conversation_assigned"
	TypeConversationQueued   Type = "conversation_queued"
	TypeAgentOnline          Type = "agent_online"
	TypeAgentOffline         Type = "agent_offline"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelAssignment Channel = "assignment"
	ChannelAgent      Channel = "agent"
)

var typeToChannel = map[Type]Channel{
	TypeConversationAssigned: ChannelAssignment,
	TypeConversationQueued:   ChannelAssignment,
	TypeAgentOnline:          ChannelAgent,
	TypeAgentOffline:         ChannelAgent,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the appropriate repository.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Type           Type      `json:"type"`
	TenantID       string    `json:"tenant_id"`
	GroupKey       string    `json:"group_key,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	AgentUserID    string    `json:"agent_user_id,omitempty"`
	Strategy       string    `json:"strategy,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func New(eventType Type, tenantID string) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		TenantID:  tenantID,
		Timestamp: time.Now().UTC(),
	}
}
