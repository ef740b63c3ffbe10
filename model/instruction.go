package model

import "fmt"

// Kind identifies an instruction variant. The set is closed: the
// dispatcher switches exhaustively over these values and the compiler
// keeps any new variant from being silently mis-handled.
type Kind int

const (
	// KindRequest asks for exclusive use of a named resource.
	KindRequest Kind = iota
	// KindRelease gives a previously acquired resource back.
	KindRelease
	// KindSend posts a message to a mailbox. Send instructions are
	// carried in process images so that parsed and generated workloads
	// stay well-formed, but the scheduler never interprets them.
	KindSend
	// KindReceive reads a message from a mailbox. Inert, like KindSend.
	KindReceive
)

// String returns the keyword used by the process description syntax.
func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "req"
	case KindRelease:
		return "rel"
	case KindSend:
		return "send"
	case KindReceive:
		return "recv"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Instruction is a single step of a process image. Resource names a
// resource for req/rel and a mailbox for send/recv; Message carries the
// send/recv payload and is empty otherwise.
type Instruction struct {
	Kind     Kind
	Resource string
	Message  string
}

func (i Instruction) String() string {
	if i.Message != "" {
		return fmt.Sprintf("(%v %s %s)", i.Kind, i.Resource, i.Message)
	}
	return fmt.Sprintf("(%v %s)", i.Kind, i.Resource)
}

// Program is an ordered instruction sequence. It is never mutated after
// load; scheduling state advances a cursor (an index into the program)
// rather than rewriting the sequence.
type Program []Instruction
