package scheduler

import (
	"context"

	"github.com/caedentelfer/procsim/runtime/execution"
)

// runPriority interleaves processes at single-instruction granularity.
// At most one process runs at a time; after every instruction the ready
// queue is re-scanned and a strictly higher-priority process preempts
// the running one, which is re-enqueued at the tail of Ready with its
// cursor untouched.
func (s *Service) runPriority(ctx context.Context) Outcome {
	var current *execution.PCB

	for !s.queues.Ready.Empty() || !s.queues.Waiting.Empty() || current != nil {
		if current == nil {
			if candidate := s.queues.HighestPriority(); candidate != nil {
				s.queues.Ready.Remove(candidate)
				candidate.SetState(execution.StateRunning)
				current = candidate
			}
		}

		if current != nil && current.State() == execution.StateRunning {
			if instr, ok := current.Current(); ok {
				s.execute(ctx, current, instr)
				arrived := s.checkForNewArrivals(ctx)

				switch current.State() {
				case execution.StateRunning:
					current.Advance()
					if current.Done() {
						s.moveToTerminated(ctx, current)
						current = nil
					}
				case execution.StateWaiting:
					// blocked request: already queued on Waiting, the
					// cursor stays on the unsatisfied instruction
					current = nil
				}

				// The preemption check runs twice per step, once gated
				// on an arrival and once unconditionally. Skipping
				// either changes which process wins when arrivals with
				// different priorities land in the same step.
				if arrived {
					current = s.preempt(ctx, current)
				}
				current = s.preempt(ctx, current)
			} else {
				s.moveToTerminated(ctx, current)
				current = nil
			}
		}

		if current == nil && s.queues.Ready.Empty() && s.queues.Waiting.Empty() && !s.checkForNewArrivals(ctx) {
			break
		}
		if s.checkDeadlock(ctx) {
			return OutcomeDeadlocked
		}
	}
	return OutcomeCompleted
}

// preempt re-scans Ready for the maximum-priority process and installs
// it as running when it strictly outranks the current one (ties keep
// the incumbent). The demoted process loses no instruction progress.
func (s *Service) preempt(ctx context.Context, current *execution.PCB) *execution.PCB {
	candidate := s.queues.HighestPriority()
	if candidate == nil {
		return current
	}
	if current != nil && candidate.Priority <= current.Priority {
		return current
	}
	if current != nil {
		s.moveToReady(ctx, current)
	}
	s.queues.Ready.Remove(candidate)
	candidate.SetState(execution.StateRunning)
	return candidate
}
