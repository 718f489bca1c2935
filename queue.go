package stagehand

// EventQueue buffers captured input between ticks. Producers append with Push;
// the frame driver is the only consumer.
//
// Removal is newest-first: PopNewest returns the most recently pushed event.
// Games written against this core see events of one tick in reverse arrival
// order and may rely on it, so the order is kept as is.
//
// The queue has no bound and never drops or merges events. It is not safe for
// concurrent use; capture and dispatch both run on the game loop goroutine.
type EventQueue struct {
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(ev Event) {
	q.events = append(q.events, ev)
}

// PopNewest removes and returns the most recently pushed event. It reports
// false when the queue is empty.
func (q *EventQueue) PopNewest() (Event, bool) {
	n := len(q.events)
	if n == 0 {
		return Event{}, false
	}
	ev := q.events[n-1]
	q.events[n-1] = Event{} // drop slice references held by the backing array
	q.events = q.events[:n-1]
	return ev, true
}

// Len returns the number of buffered events.
func (q *EventQueue) Len() int {
	return len(q.events)
}
