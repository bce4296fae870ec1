package engine

// EventQueue is a typed FIFO drained once per tick by the system that owns it.
// An event is delivered to whoever drains it first and is never redelivered.
type EventQueue[T any] struct {
	pending []T
}

// Send appends an event for the next drain.
func (q *EventQueue[T]) Send(ev T) {
	q.pending = append(q.pending, ev)
}

// Drain returns all pending events in send order and empties the queue.
func (q *EventQueue[T]) Drain() []T {
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue[T]) Len() int {
	return len(q.pending)
}

// EventWithArg is a multi-cast event with one argument.
type EventWithArg[T any] struct {
	listeners []func(T)
}

func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		if listener != nil {
			listener(arg)
		}
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
