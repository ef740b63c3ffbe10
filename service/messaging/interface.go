package messaging

import (
	"context"
)

// Queue is an abstract FIFO message queue for any payload type. The
// simulation publishes every state transition through one; delivery is
// fire-and-forget, so the contract carries no retry or redelivery
// semantics.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue, blocking until
	// one is available or the context ends
	Consume(ctx context.Context) (Message[T], error)

	// Size returns the number of undelivered messages
	Size() int
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges delivery of this message
	Ack() error
}
