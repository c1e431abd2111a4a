package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/alanyang/support-router/internal/domain/event"
	portbus "github.com/alanyang/support-router/internal/port/eventbus"
)

var _ portbus.Publisher = (*Publisher)(nil)

const producer = "support-router"

// Envelope is the wire shape of every published event.
type Envelope struct {
	Meta Meta        `json:"meta"`
	Data event.Event `json:"data"`
}

type Meta struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Producer      string    `json:"producer"`
	Time          time.Time `json:"time"`
	// Type is versioned, e.g. support.conversation_assigned.v1.
	Type string `json:"type"`
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends assignment events to a topic exchange. Routing keys are
// "<channel>.<type>", e.g. "assignment.conversation_assigned".
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch channel
}

// Dial connects to url and declares exchange as a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, exchange: exchange, ch: ch}, nil
}

func newWithChannel(ch channel, exchange string) *Publisher {
	return &Publisher{exchange: exchange, ch: ch}
}

func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	env := Envelope{
		Meta: Meta{
			ID:            e.ID.String(),
			CorrelationID: e.ConversationID,
			Producer:      producer,
			Time:          e.Timestamp,
			Type:          "support." + string(e.Type) + ".v1",
		},
		Data: e,
	}
	if env.Meta.Time.IsZero() {
		env.Meta.Time = time.Now().UTC()
	}
	if env.Meta.CorrelationID == "" {
		env.Meta.CorrelationID = env.Meta.ID
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(e.Type), false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		DeliveryMode:  amqp.Persistent,
		MessageId:     env.Meta.ID,
		CorrelationId: env.Meta.CorrelationID,
		Type:          env.Meta.Type,
		Timestamp:     env.Meta.Time,
		AppId:         producer,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.ch.Close()
	if p.conn == nil {
		return chErr
	}
	return p.conn.Close()
}

func RoutingKey(t event.Type) string {
	return string(event.ChannelFor(t)) + "." + string(t)
}
