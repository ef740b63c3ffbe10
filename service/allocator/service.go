// Package allocator implements the resource request/release protocol:
// requests either flip a table entry to unavailable and record the hold
// on the process, or block with no partial state change; releases free
// the table entry and re-admit waiting processes in FIFO order.
package allocator

import (
	"context"

	"github.com/caedentelfer/procsim/model"
	"github.com/caedentelfer/procsim/runtime/execution"
	"github.com/caedentelfer/procsim/service/event"
)

// RequestOutcome is the result of a resource request.
type RequestOutcome int

const (
	// Granted means the resource flipped to unavailable and the process
	// now holds a copy of its record.
	Granted RequestOutcome = iota
	// Blocked means no resource of that name is currently available —
	// unknown names block the same way an exhausted one does. The
	// caller must move the process to Waiting.
	Blocked
)

// ReleaseOutcome is the result of a resource release.
type ReleaseOutcome int

const (
	// Released means the held entry was removed and the table entry is
	// available again.
	Released ReleaseOutcome = iota
	// NotHeld means the process holds no resource of that name. The
	// table is untouched; the anomaly is reported, not fatal.
	NotHeld
)

// Service mediates every resource acquisition in a run. It mutates the
// shared table and the queue set synchronously from the dispatcher's
// single control thread; a concurrent host must serialise calls, since
// the protocol assumes atomic request/grant pairs.
type Service struct {
	table  *model.Table
	queues *execution.QueueSet
	events *event.Publisher
}

// New creates an allocator over the shared resource table and queues.
func New(table *model.Table, queues *execution.QueueSet, events *event.Publisher) *Service {
	return &Service{table: table, queues: queues, events: events}
}

// Request attempts to acquire the named resource for the process. On
// Granted a copy of the resource record joins the process's held list
// and an acquired event fires. On Blocked nothing changes; the caller
// moves the process to Waiting and reports that transition.
func (s *Service) Request(ctx context.Context, p *execution.PCB, name string) RequestOutcome {
	resource, ok := s.table.Acquire(name)
	if !ok {
		return Blocked
	}
	p.Hold(resource)
	s.events.Acquired(ctx, p.Name(), name)
	return Granted
}

// Release gives the named resource back. On Released the table entry
// flips to available and every waiting process whose next instruction
// requests it is re-admitted to Ready in waiting order; only the first
// will re-acquire it when rescheduled, the rest re-block.
func (s *Service) Release(ctx context.Context, p *execution.PCB, name string) ReleaseOutcome {
	if !p.Drop(name) {
		s.events.ReleaseError(ctx, p.Name(), name)
		return NotHeld
	}
	s.table.MakeAvailable(name)
	s.events.Released(ctx, p.Name(), name)
	for _, moved := range s.queues.ReadmitWaiting(name) {
		s.events.Ready(ctx, moved.Name())
	}
	return Released
}
