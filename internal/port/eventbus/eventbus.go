package eventbus

import (
	"context"

	"github.com/alanyang/support-router/internal/domain/event"
)

type Handler func(ctx context.Context, e event.Event)

type Subscription interface {
	Unsubscribe()
}

// Publisher is the narrow interface services need to emit events.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

type EventBus interface {
	Publisher
	Subscribe(ctx context.Context, ch event.Channel, handler Handler) (Subscription, error)
}
