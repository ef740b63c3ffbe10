package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/caedentelfer/procsim/internal/clock"
	"github.com/caedentelfer/procsim/service/messaging"
	"time"
)

// Config for memory queue implementation
type Config struct {
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 1024,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	mu        sync.Mutex
	delivered bool
	createdAt time.Time
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message as delivered
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delivered {
		return fmt.Errorf("message %v already delivered", m.id)
	}
	m.delivered = true
	return nil
}

// Queue implements an in-memory messaging.Queue over an unbounded
// backlog. Publish never blocks regardless of how far consumption lags,
// so a producer that only drains after its run cannot wedge itself.
// Order is preserved: messages are consumed in publish order, which
// keeps the simulation log identical to the transition order the
// dispatcher produced.
type Queue[T any] struct {
	config Config
	mux    sync.Mutex
	items  []*Message[T]
	notify chan struct{}
}

// NewQueue creates a new in-memory queue. QueueBuffer sizes the initial
// backlog capacity; the backlog grows past it as needed.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		config: config,
		items:  make([]*Message[T], 0, config.QueueBuffer),
		notify: make(chan struct{}, 1),
	}
}

// Publish appends a new item to the backlog without blocking
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &Message[T]{
		id:        uuid.New().String(),
		payload:   *t,
		createdAt: clock.Now(),
	}
	q.mux.Lock()
	q.items = append(q.items, msg)
	q.mux.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Consume retrieves a single item, waiting for one when the backlog is
// empty until ctx expires
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		q.mux.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items = q.items[1:]
			q.mux.Unlock()
			return msg, nil
		}
		q.mux.Unlock()
		select {
		case <-q.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Size returns the current number of messages in the backlog
func (q *Queue[T]) Size() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	return len(q.items)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
