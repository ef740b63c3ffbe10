// Package loader defines the contract between the scheduling core and
// whatever supplies its workload: a parsed description file or a random
// generator. The core consumes initial processes once, polls for
// arrivals during the run and shares the loader's resource table.
package loader

import (
	"errors"

	"github.com/caedentelfer/procsim/model"
	"github.com/caedentelfer/procsim/runtime/execution"
)

// ErrNoProcesses is returned when a workload contains no processes to
// schedule. The simulation never starts in that case.
var ErrNoProcesses = errors.New("loader: no processes to schedule")

// Service supplies a workload to the scheduling core.
type Service interface {
	// InitialProcesses returns the processes present at simulation
	// start, in load order.
	InitialProcesses() []*execution.PCB

	// PollNewArrival returns at most one newly arrived process per
	// call, nil when none arrives this step.
	PollNewArrival() *execution.PCB

	// ResourceTable returns the shared, mutable resource table.
	ResourceTable() *model.Table

	// Mailboxes returns the loaded mailboxes. They keep send/recv
	// instructions well-formed and are never interpreted.
	Mailboxes() []model.Mailbox

	// ProcessCount returns the total number of processes the loader
	// has produced so far, arrivals included.
	ProcessCount() int
}
