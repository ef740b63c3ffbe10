package event

import (
	"context"

	"github.com/caedentelfer/procsim/internal/clock"
	"github.com/caedentelfer/procsim/internal/idgen"
	"github.com/caedentelfer/procsim/service/messaging"
)

// Publisher reports simulation events to the observer queue. Every
// notification is fire-and-forget: the core never consumes a return
// value and publishing never blocks the dispatcher, however far the
// listener lags behind.
type Publisher struct {
	queue messaging.Queue[Event]
}

// NewPublisher creates a publisher on top of the supplied queue.
func NewPublisher(queue messaging.Queue[Event]) *Publisher {
	return &Publisher{queue: queue}
}

func (p *Publisher) publish(ctx context.Context, kind Kind, process, resource, message string) {
	if p == nil || p.queue == nil {
		return
	}
	_ = p.queue.Publish(ctx, &Event{
		ID:        idgen.New(),
		Kind:      kind,
		Process:   process,
		Resource:  resource,
		Message:   message,
		CreatedAt: clock.Now(),
	})
}

// Arrival reports a process becoming known to the scheduler.
func (p *Publisher) Arrival(ctx context.Context, process string) {
	p.publish(ctx, KindArrival, process, "", "")
}

// Acquired reports a granted resource request.
func (p *Publisher) Acquired(ctx context.Context, process, resource string) {
	p.publish(ctx, KindAcquired, process, resource, "")
}

// Waiting reports a blocked resource request.
func (p *Publisher) Waiting(ctx context.Context, process, resource string) {
	p.publish(ctx, KindWaiting, process, resource, "")
}

// Ready reports admission to the ready queue.
func (p *Publisher) Ready(ctx context.Context, process string) {
	p.publish(ctx, KindReady, process, "", "")
}

// Released reports a successful release.
func (p *Publisher) Released(ctx context.Context, process, resource string) {
	p.publish(ctx, KindReleased, process, resource, "")
}

// ReleaseError reports a release of a resource the process does not
// hold. The anomaly is reported, not fatal.
func (p *Publisher) ReleaseError(ctx context.Context, process, resource string) {
	p.publish(ctx, KindReleaseError, process, resource, "")
}

// Terminated reports a process exhausting its instruction stream.
func (p *Publisher) Terminated(ctx context.Context, process string) {
	p.publish(ctx, KindTerminated, process, "", "")
}

// DeadlockDetected reports the terminal deadlock outcome.
func (p *Publisher) DeadlockDetected(ctx context.Context) {
	p.publish(ctx, KindDeadlock, "", "", "")
}

// BlockedProcessesFound reports blocked-but-not-deadlocked processes.
func (p *Publisher) BlockedProcessesFound(ctx context.Context) {
	p.publish(ctx, KindBlocked, "", "", "")
}
