package event

import (
	"time"
)

// Kind identifies a simulation event. One kind exists per observer
// notification the dispatcher and allocator emit.
type Kind string

const (
	KindArrival      Kind = "arrival"
	KindAcquired     Kind = "acquired"
	KindWaiting      Kind = "waiting"
	KindReady        Kind = "ready"
	KindReleased     Kind = "released"
	KindReleaseError Kind = "releaseError"
	KindTerminated   Kind = "terminated"
	KindDeadlock     Kind = "deadlockDetected"
	KindBlocked      Kind = "blockedProcessesFound"

	// Message events exist for log-format completeness; the scheduler
	// never interprets send/recv instructions and never emits these.
	KindSent     Kind = "messageSent"
	KindReceived Kind = "messageReceived"
)

// Event is one observed state transition. Process and Resource are
// empty for run-level events such as a detected deadlock.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Process   string    `json:"process,omitempty"`
	Resource  string    `json:"resource,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
