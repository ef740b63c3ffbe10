// Package scheduler implements the simulation dispatcher: it selects
// processes from the ready queue under one of the scheduling
// disciplines, executes their instructions against the allocator and
// routes them between queues until the run completes or deadlocks.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/caedentelfer/procsim/model"
	"github.com/caedentelfer/procsim/runtime/execution"
	"github.com/caedentelfer/procsim/service/allocator"
	"github.com/caedentelfer/procsim/service/event"
	"github.com/caedentelfer/procsim/tracing"
)

// Algorithm selects the scheduling discipline.
type Algorithm string

const (
	// AlgorithmFCFS runs each process until it terminates or blocks.
	AlgorithmFCFS Algorithm = "fcfs"
	// AlgorithmPriority preempts at single-instruction granularity in
	// favour of strictly higher priorities.
	AlgorithmPriority Algorithm = "priority"
	// AlgorithmRoundRobin is accepted but dispatches through the FCFS
	// loop: time-slicing was never implemented and the quantum is
	// parsed and ignored. Kept so existing workload configurations
	// keep their documented degraded behavior.
	AlgorithmRoundRobin Algorithm = "rr"
)

// ErrUnknownAlgorithm is returned when the configured algorithm does
// not name a discipline.
var ErrUnknownAlgorithm = errors.New("scheduler: unknown algorithm")

// Outcome is the terminal state of a simulation run. A detected
// deadlock ends the run successfully with a distinct report; it is not
// an error.
type Outcome string

const (
	OutcomeCompleted  Outcome = "completed"
	OutcomeDeadlocked Outcome = "deadlocked"
)

// Feed supplies newly arrived processes during scheduling. Poll
// returns at most one process; nil means no arrival this step.
type Feed interface {
	PollNewArrival() *execution.PCB
}

// Config represents scheduler configuration.
type Config struct {
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
	// TimeQuantum is accepted for the round-robin mode and unused (see
	// AlgorithmRoundRobin).
	TimeQuantum int `json:"timeQuantum" yaml:"timeQuantum"`
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{Algorithm: AlgorithmFCFS, TimeQuantum: 1}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmFCFS, AlgorithmPriority, AlgorithmRoundRobin:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
}

// Service owns the simulation loop for one run.
type Service struct {
	config Config
	queues *execution.QueueSet
	alloc  *allocator.Service
	feed   Feed
	events *event.Publisher
}

// New creates a dispatcher over the run's queues, allocator and feed.
func New(config Config, queues *execution.QueueSet, alloc *allocator.Service, feed Feed, events *event.Publisher) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		config: config,
		queues: queues,
		alloc:  alloc,
		feed:   feed,
		events: events,
	}, nil
}

// Run executes the configured discipline to its terminal state.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	ctx, span := tracing.StartSpan(ctx, "scheduler.run", "INTERNAL")
	span.WithAttributes(map[string]string{"algorithm": string(s.config.Algorithm)})
	var outcome Outcome
	switch s.config.Algorithm {
	case AlgorithmPriority:
		outcome = s.runPriority(ctx)
	case AlgorithmRoundRobin, AlgorithmFCFS:
		outcome = s.runFCFS(ctx)
	default:
		// unreachable while New rejects unknown algorithms; kept so a
		// future constant cannot fall through silently
		span.End(ErrUnknownAlgorithm)
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s.config.Algorithm)
	}
	span.WithAttributes(map[string]string{"outcome": string(outcome)})
	span.End(nil)
	return outcome, nil
}

// execute runs one instruction of p against the allocator. Send and
// receive instructions are consciously inert: messaging lives in the
// data model only. A request that blocks moves p to Waiting with the
// cursor still on the unsatisfied instruction.
func (s *Service) execute(ctx context.Context, p *execution.PCB, instr model.Instruction) {
	switch instr.Kind {
	case model.KindRequest:
		if s.alloc.Request(ctx, p, instr.Resource) == allocator.Blocked {
			s.moveToWaiting(ctx, p, instr.Resource)
		}
	case model.KindRelease:
		s.alloc.Release(ctx, p, instr.Resource)
	case model.KindSend, model.KindReceive:
		// inert by contract
	}
}

func (s *Service) moveToWaiting(ctx context.Context, p *execution.PCB, resource string) {
	p.SetState(execution.StateWaiting)
	s.queues.Waiting.Enqueue(p)
	s.events.Waiting(ctx, p.Name(), resource)
}

func (s *Service) moveToReady(ctx context.Context, p *execution.PCB) {
	p.SetState(execution.StateReady)
	s.queues.Ready.Enqueue(p)
	s.events.Ready(ctx, p.Name())
}

func (s *Service) moveToTerminated(ctx context.Context, p *execution.PCB) {
	p.SetState(execution.StateTerminated)
	s.queues.Terminated.Enqueue(p)
	s.events.Terminated(ctx, p.Name())
}

// checkForNewArrivals polls the feed and folds any arrival into Ready.
func (s *Service) checkForNewArrivals(ctx context.Context) bool {
	if s.feed == nil {
		return false
	}
	arrived := s.feed.PollNewArrival()
	if arrived == nil {
		return false
	}
	s.events.Arrival(ctx, arrived.Name())
	s.moveToReady(ctx, arrived)
	return true
}

// checkDeadlock applies the conservative heuristic: with Ready empty, a
// non-empty Waiting queue is declared a deadlock. This deliberately
// over-reports — work that a later release or arrival would unblock is
// still declared deadlocked — and callers depend on exactly this
// policy. Detection is terminal; no resolution step exists.
func (s *Service) checkDeadlock(ctx context.Context) bool {
	if !s.queues.Ready.Empty() || s.queues.Waiting.Empty() {
		return false
	}
	s.events.DeadlockDetected(ctx)
	return true
}
