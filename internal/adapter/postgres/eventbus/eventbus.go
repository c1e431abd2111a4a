package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/support-router/internal/domain/event"
	porteventbus "github.com/alanyang/support-router/internal/port/eventbus"
)

var _ porteventbus.EventBus = (*EventBus)(nil)

const reconnectDelay = time.Second

// EventBus publishes with pg_notify and fans notifications out to in-process
// subscribers. A channel holds one LISTEN connection no matter how many
// subscribers it has; the connection is released with the last subscriber.
type EventBus struct {
	pool *pgxpool.Pool

	mu        sync.Mutex
	listeners map[event.Channel]*listener
}

func New(pool *pgxpool.Pool) *EventBus {
	return &EventBus{
		pool:      pool,
		listeners: make(map[event.Channel]*listener),
	}
}

// Publish sends an event via Postgres NOTIFY on the domain channel for the event type.
func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	channel := channelName(event.ChannelFor(e.Type))
	if _, err := eb.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(payload)); err != nil {
		return fmt.Errorf("publishing event on channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe registers handler for every event on ch. The subscription ends
// when ctx is done or Unsubscribe is called. Handlers must not call
// Unsubscribe themselves.
func (eb *EventBus) Subscribe(ctx context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	eb.mu.Lock()
	l := eb.listeners[ch]
	if l == nil {
		var err error
		if l, err = eb.listen(ctx, ch); err != nil {
			eb.mu.Unlock()
			return nil, err
		}
		eb.listeners[ch] = l
	}
	sub := &subscription{bus: eb, ch: ch, l: l}
	l.add(sub, handler)
	sub.stop = context.AfterFunc(ctx, sub.Unsubscribe)
	eb.mu.Unlock()

	return sub, nil
}

// listen takes a pool connection for ch and starts its dispatch loop.
// Callers hold eb.mu.
func (eb *EventBus) listen(ctx context.Context, ch event.Channel) (*listener, error) {
	channel := channelName(ch)
	conn, err := acquireListening(ctx, eb.pool, channel)
	if err != nil {
		return nil, err
	}

	lctx, cancel := context.WithCancel(context.Background())
	l := &listener{
		channel: channel,
		cancel:  cancel,
		done:    make(chan struct{}),
		subs:    make(map[*subscription]porteventbus.Handler),
	}
	go l.run(lctx, eb.pool, conn)
	return l, nil
}

func (eb *EventBus) remove(sub *subscription) {
	eb.mu.Lock()
	l := sub.l
	idle := l.remove(sub) == 0
	if idle && eb.listeners[sub.ch] == l {
		delete(eb.listeners, sub.ch)
	}
	eb.mu.Unlock()

	if idle {
		l.stop()
	}
}

func acquireListening(ctx context.Context, pool *pgxpool.Pool, channel string) (*pgxpool.Conn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection for LISTEN: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("executing LISTEN on channel %s: %w", channel, err)
	}
	return conn, nil
}

// channelName converts a domain Channel to a safe Postgres channel identifier.
func channelName(ch event.Channel) string {
	return "support_router_" + string(ch)
}

// ── listener ─────────────────────────────────────────────────────────────────

type listener struct {
	channel string
	cancel  context.CancelFunc
	done    chan struct{}

	mu   sync.RWMutex
	subs map[*subscription]porteventbus.Handler
}

func (l *listener) add(sub *subscription, h porteventbus.Handler) {
	l.mu.Lock()
	l.subs[sub] = h
	l.mu.Unlock()
}

// remove drops sub and returns how many subscribers are left.
func (l *listener) remove(sub *subscription) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs, sub)
	return len(l.subs)
}

func (l *listener) stop() {
	l.cancel()
	<-l.done
}

// run waits for notifications until ctx is cancelled. A dropped connection is
// replaced, and subscribers keep their registration across the reconnect.
func (l *listener) run(ctx context.Context, pool *pgxpool.Pool, conn *pgxpool.Conn) {
	defer close(l.done)

	for conn != nil {
		err := l.drain(ctx, conn)
		_, _ = conn.Exec(context.Background(), "UNLISTEN "+l.channel)
		conn.Release()
		if ctx.Err() != nil {
			return
		}

		slog.Warn("eventbus: listener connection lost, reconnecting", "channel", l.channel, "error", err)
		conn = l.reconnect(ctx, pool)
	}
}

func (l *listener) drain(ctx context.Context, conn *pgxpool.Conn) error {
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var e event.Event
		if err := json.Unmarshal([]byte(n.Payload), &e); err != nil {
			slog.Warn("eventbus: dropping malformed notification", "channel", l.channel, "error", err)
			continue
		}
		l.dispatch(ctx, e)
	}
}

// reconnect retries until a LISTEN connection is back or ctx is cancelled,
// in which case it returns nil.
func (l *listener) reconnect(ctx context.Context, pool *pgxpool.Pool) *pgxpool.Conn {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}

		conn, err := acquireListening(ctx, pool, l.channel)
		if err == nil {
			slog.Info("eventbus: listener reconnected", "channel", l.channel)
			return conn
		}
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("eventbus: reconnect failed", "channel", l.channel, "error", err)
	}
}

// dispatch calls every current handler in turn. Handlers run on the listener
// goroutine, so a slow handler delays the rest of the channel.
func (l *listener) dispatch(ctx context.Context, e event.Event) {
	l.mu.RLock()
	handlers := make([]porteventbus.Handler, 0, len(l.subs))
	for _, h := range l.subs {
		handlers = append(handlers, h)
	}
	l.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}

// ── subscription ─────────────────────────────────────────────────────────────

type subscription struct {
	bus  *EventBus
	ch   event.Channel
	l    *listener
	once sync.Once
	stop func() bool
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		// remove takes bus.mu, which Subscribe holds while setting stop.
		s.bus.remove(s)
		s.stop()
	})
}
