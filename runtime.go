package procsim

import (
	"context"

	"github.com/caedentelfer/procsim/runtime/execution"
	"github.com/caedentelfer/procsim/service/event"
	"github.com/caedentelfer/procsim/service/loader"
	"github.com/caedentelfer/procsim/service/scheduler"
)

// Runtime is a loaded simulation ready to run.
type Runtime struct {
	service    *Service
	workload   loader.Service
	queues     *execution.QueueSet
	dispatcher *scheduler.Service
	listener   *event.Listener
}

// Report summarises a finished simulation.
type Report struct {
	Outcome    scheduler.Outcome
	Processes  int
	Terminated int
	Stranded   int
}

// Queues exposes the scheduling queues, useful for inspection after a run.
func (r *Runtime) Queues() *execution.QueueSet {
	return r.queues
}

// Run drives the simulation to completion or deadlock, delivers all
// buffered events to the handlers and flushes the log sink.
func (r *Runtime) Run(ctx context.Context) (*Report, error) {
	outcome, err := r.dispatcher.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.listener.Drain(ctx); err != nil {
		return nil, err
	}
	if r.service.sink != nil {
		if err := r.service.sink.Close(ctx); err != nil {
			return nil, err
		}
	}
	return &Report{
		Outcome:    outcome,
		Processes:  r.workload.ProcessCount(),
		Terminated: r.queues.Terminated.Len(),
		Stranded:   r.queues.Waiting.Len(),
	}, nil
}
