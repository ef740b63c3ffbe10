package model

// Image is the immutable template of a process: its identity and the
// full instruction sequence as loaded. The scheduler holds a non-owning
// reference to it for display and logging; all mutable scheduling state
// lives in the PCB.
type Image struct {
	ID      int
	Name    string
	Program Program
}

// Mailbox is a named message slot. Mailboxes are loaded so that images
// containing send/recv instructions remain well-formed; no component
// delivers messages through them.
type Mailbox struct {
	Name    string
	Message string
}
