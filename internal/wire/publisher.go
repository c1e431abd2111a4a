package wire

import (
	"context"
	"errors"

	"github.com/alanyang/support-router/internal/domain/event"
	portbus "github.com/alanyang/support-router/internal/port/eventbus"
)

var (
	_ portbus.Publisher = fanout(nil)
	_ portbus.Publisher = discard{}
)

// fanout publishes every event to each publisher in turn. All publishers are
// tried even when one fails.
type fanout []portbus.Publisher

func (f fanout) Publish(ctx context.Context, e event.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// discard drops events and notifications.
type discard struct{}

func (discard) Publish(context.Context, event.Event) error { return nil }

func (discard) NotifyAgent(context.Context, string, string, any) error { return nil }
