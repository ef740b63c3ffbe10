package execution

import (
	"github.com/caedentelfer/procsim/model"
)

// State is the lifecycle state of a scheduled process.
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateWaiting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// PCB is the mutable scheduling record for one simulated process. The
// cursor indexes into the image program; it never regresses, and a
// blocked request leaves it in place so the same instruction is retried
// once the process is re-admitted.
type PCB struct {
	Image    *model.Image
	Priority int

	state  State
	cursor int
	held   []model.Resource
}

// NewPCB creates a PCB in StateNew for the supplied image.
func NewPCB(image *model.Image, priority int) *PCB {
	return &PCB{Image: image, Priority: priority, state: StateNew}
}

func (p *PCB) Name() string { return p.Image.Name }

func (p *PCB) State() State { return p.state }

func (p *PCB) SetState(state State) { p.state = state }

// Current returns the instruction at the cursor; ok is false once the
// program is exhausted.
func (p *PCB) Current() (model.Instruction, bool) {
	if p.cursor >= len(p.Image.Program) {
		return model.Instruction{}, false
	}
	return p.Image.Program[p.cursor], true
}

// Advance moves the cursor past the current instruction.
func (p *PCB) Advance() {
	if p.cursor < len(p.Image.Program) {
		p.cursor++
	}
}

// Done reports whether every instruction has been executed.
func (p *PCB) Done() bool {
	return p.cursor >= len(p.Image.Program)
}

// Cursor returns the index of the next instruction to execute.
func (p *PCB) Cursor() int { return p.cursor }

// Hold records an acquired resource copy on the process.
func (p *PCB) Hold(resource model.Resource) {
	p.held = append(p.held, resource)
}

// Drop removes the first held entry with the given name and reports
// whether one was found.
func (p *PCB) Drop(name string) bool {
	for i, r := range p.held {
		if r.Name == name {
			p.held = append(p.held[:i], p.held[i+1:]...)
			return true
		}
	}
	return false
}

// Holds reports whether the process currently holds a resource with the
// given name.
func (p *PCB) Holds(name string) bool {
	for _, r := range p.held {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Held returns a copy of the held-resource list.
func (p *PCB) Held() []model.Resource {
	out := make([]model.Resource, len(p.held))
	copy(out, p.held)
	return out
}

// WaitingOn returns the resource named by the instruction at the cursor
// when that instruction is a request; ok is false otherwise. Waiting
// processes are re-admitted based on this value.
func (p *PCB) WaitingOn() (string, bool) {
	instr, ok := p.Current()
	if !ok || instr.Kind != model.KindRequest {
		return "", false
	}
	return instr.Resource, true
}
