package scheduler

import (
	"context"

	"github.com/caedentelfer/procsim/runtime/execution"
)

// runFCFS serialises processes fully: the head of Ready runs until its
// instruction stream is exhausted or a request blocks. New arrivals are
// folded into Ready after every instruction and simply wait their turn;
// this mode never preempts.
func (s *Service) runFCFS(ctx context.Context) Outcome {
	for !s.queues.Ready.Empty() {
		current := s.queues.Ready.Dequeue()
		current.SetState(execution.StateRunning)

		for {
			instr, ok := current.Current()
			if !ok {
				break
			}
			s.execute(ctx, current, instr)
			s.checkForNewArrivals(ctx)

			// a blocked request already moved the process to Waiting
			// with the cursor still on the unsatisfied instruction
			if current.State() == execution.StateWaiting {
				break
			}
			current.Advance()
		}

		if current.State() != execution.StateWaiting && current.Done() {
			s.moveToTerminated(ctx, current)
		}
	}

	// Ready is exhausted; anything still waiting is declared deadlocked
	// by the heuristic, even when a later release would have freed it.
	if s.checkDeadlock(ctx) {
		return OutcomeDeadlocked
	}
	return OutcomeCompleted
}
