package event

import (
	"context"

	"github.com/caedentelfer/procsim/service/messaging"
)

// Handler consumes one event. Handlers must not block.
type Handler func(*Event)

// Listener drains the observer queue into a handler.
type Listener struct {
	queue   messaging.Queue[Event]
	handler Handler
}

// NewListener creates a listener for the supplied queue and handler.
func NewListener(queue messaging.Queue[Event], handler Handler) *Listener {
	return &Listener{queue: queue, handler: handler}
}

// Drain delivers every already published event in order and returns.
// The simulation is single-threaded logical time, so the runtime drains
// after the dispatcher loop rather than racing it.
func (l *Listener) Drain(ctx context.Context) error {
	for l.queue.Size() > 0 {
		msg, err := l.queue.Consume(ctx)
		if err != nil {
			return err
		}
		if err = msg.Ack(); err != nil {
			return err
		}
		l.handler(msg.T())
	}
	return nil
}
