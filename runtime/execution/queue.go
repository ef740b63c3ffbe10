package execution

// Queue is an ordered FIFO collection of PCBs. A PCB belongs to at most
// one queue at a time; every transition removes it from its previous
// owner before the next enqueue. Queues never reorder entries.
type Queue struct {
	items []*PCB
}

// Enqueue appends a process at the tail.
func (q *Queue) Enqueue(p *PCB) {
	if p == nil {
		return
	}
	q.items = append(q.items, p)
}

// Dequeue removes and returns the head, or nil when empty.
func (q *Queue) Dequeue() *PCB {
	if len(q.items) == 0 {
		return nil
	}
	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return p
}

// Remove pulls a specific process out of the queue by identity and
// reports whether it was present. Used when priority selection or
// preemption takes a process from the middle of Ready.
func (q *Queue) Remove(p *PCB) bool {
	for i, item := range q.items {
		if item == p {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Empty reports whether the queue holds no processes.
func (q *Queue) Empty() bool { return len(q.items) == 0 }

// Len returns the number of queued processes.
func (q *Queue) Len() int { return len(q.items) }

// Items returns the queued processes in order. The slice is a copy;
// the PCBs are shared.
func (q *Queue) Items() []*PCB {
	out := make([]*PCB, len(q.items))
	copy(out, q.items)
	return out
}

// QueueSet groups the three queues every scheduling run owns. The
// at-most-one running process is dispatcher state, not a queue.
type QueueSet struct {
	Ready      Queue
	Waiting    Queue
	Terminated Queue
}

// NewQueueSet admits the initial processes to Ready in order.
func NewQueueSet(initial []*PCB) *QueueSet {
	qs := &QueueSet{}
	for _, p := range initial {
		p.SetState(StateReady)
		qs.Ready.Enqueue(p)
	}
	return qs
}

// ReadmitWaiting moves every waiting process whose next instruction
// requests the freed resource back to Ready, preserving waiting order.
// The moved processes are returned so the caller can report each
// transition; only the first of them will re-acquire the resource when
// rescheduled, the rest re-block.
func (qs *QueueSet) ReadmitWaiting(freed string) []*PCB {
	var moved []*PCB
	var still []*PCB
	for _, p := range qs.Waiting.items {
		if name, ok := p.WaitingOn(); ok && name == freed {
			p.SetState(StateReady)
			qs.Ready.Enqueue(p)
			moved = append(moved, p)
			continue
		}
		still = append(still, p)
	}
	qs.Waiting.items = still
	return moved
}

// HighestPriority scans Ready and returns the maximum-priority process
// without removing it. Ties keep the earliest-enqueued entry: the scan
// takes strictly greater comparisons only. Returns nil when Ready is
// empty.
func (qs *QueueSet) HighestPriority() *PCB {
	var best *PCB
	for _, p := range qs.Ready.items {
		if best == nil || p.Priority > best.Priority {
			best = p
		}
	}
	return best
}
