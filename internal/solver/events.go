package solver

import "sort"

type CollisionEventKind uint8

const (
	CollisionStarted CollisionEventKind = iota
	CollisionStopped
)

func (k CollisionEventKind) String() string {
	if k == CollisionStarted {
		return "started"
	}
	return "stopped"
}

// CollisionEventFlags qualify a collision event.
type CollisionEventFlags uint8

const (
	// FlagSensor is set when at least one collider is a sensor.
	FlagSensor CollisionEventFlags = 1 << iota
	// FlagRemoved is set on Stopped events caused by a collider being removed.
	FlagRemoved
)

func (f CollisionEventFlags) Has(flag CollisionEventFlags) bool { return f&flag != 0 }

type CollisionEvent struct {
	Kind      CollisionEventKind
	Collider1 ColliderHandle
	Collider2 ColliderHandle
	Flags     CollisionEventFlags
}

// colliderPair is an unordered pair stored with the lower handle first.
type colliderPair struct {
	A, B ColliderHandle
}

func handleLess(a, b ColliderHandle) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Generation < b.Generation
}

// makeColliderPair creates a consistent pair (smaller handle first)
func makeColliderPair(a, b ColliderHandle) colliderPair {
	if handleLess(b, a) {
		return colliderPair{A: b, B: a}
	}
	return colliderPair{A: a, B: b}
}

func sortPairs(pairs []colliderPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return handleLess(pairs[i].A, pairs[j].A)
		}
		return handleLess(pairs[i].B, pairs[j].B)
	})
}

// dispatchCollisionEvents diffs this step's touching pairs against the last
// step's and queues Started/Stopped events.
func (w *World) dispatchCollisionEvents(current map[colliderPair]CollisionEventFlags) {
	started := make([]colliderPair, 0)
	for pair := range current {
		if _, was := w.activePairs[pair]; !was {
			started = append(started, pair)
		}
	}
	stopped := make([]colliderPair, 0)
	for pair := range w.activePairs {
		if _, is := current[pair]; !is {
			stopped = append(stopped, pair)
		}
	}
	sortPairs(started)
	sortPairs(stopped)

	for _, pair := range started {
		w.emit(CollisionStarted, pair, current[pair])
	}
	for _, pair := range stopped {
		w.emit(CollisionStopped, pair, w.activePairs[pair])
	}

	w.activePairs = current
}

// stopPairsOf ends every active pair that involves c.
func (w *World) stopPairsOf(c ColliderHandle) {
	var gone []colliderPair
	for pair := range w.activePairs {
		if pair.A == c || pair.B == c {
			gone = append(gone, pair)
		}
	}
	sortPairs(gone)
	for _, pair := range gone {
		w.emit(CollisionStopped, pair, w.activePairs[pair]|FlagRemoved)
		delete(w.activePairs, pair)
	}
}

func (w *World) emit(kind CollisionEventKind, pair colliderPair, flags CollisionEventFlags) {
	if !w.wantsEvents(pair) {
		return
	}
	w.events = append(w.events, CollisionEvent{
		Kind:      kind,
		Collider1: pair.A,
		Collider2: pair.B,
		Flags:     flags,
	})
}

// wantsEvents is true if either collider asked for events. Removed colliders
// are looked up in the graveyard kept for the current step.
func (w *World) wantsEvents(pair colliderPair) bool {
	for _, h := range [...]ColliderHandle{pair.A, pair.B} {
		if c, ok := w.colliders.Get(Handle(h)); ok && c.ActiveEvents {
			return true
		}
		if w.removedActive[h] {
			return true
		}
	}
	return false
}

// DrainCollisionEvents returns the events queued since the last drain.
func (w *World) DrainCollisionEvents() []CollisionEvent {
	out := w.events
	w.events = nil
	return out
}
