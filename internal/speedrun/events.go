package speedrun

import (
	"time"

	"jumptimer/internal/models"
)

type EventKind int

const (
	EventStateChanged EventKind = iota
	EventTimeUpdated
	EventCountdownTick
	EventSplitCompleted
	EventRunCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventTimeUpdated:
		return "time-updated"
	case EventCountdownTick:
		return "countdown-tick"
	case EventSplitCompleted:
		return "split-completed"
	case EventRunCompleted:
		return "run-completed"
	default:
		return "state-changed"
	}
}

// Event carries the payload relevant to its kind; other fields are zero.
type Event struct {
	Kind       EventKind
	State      State
	Previous   State
	Elapsed    time.Duration
	Remaining  int
	Index      int
	Checkpoint models.Checkpoint
	Record     models.Record
}

type Observer func(Event)

// Subscribe registers an observer. Observers run from Flush, in
// registration order, on the goroutine that owns the machine.
func (m *Machine) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

// Flush delivers queued events. Events raised while observers run, for
// example by an observer calling ResetTimer, are delivered in the same
// flush after the ones already queued.
func (m *Machine) Flush() {
	if m.flushing {
		return
	}
	m.flushing = true
	defer func() { m.flushing = false }()

	for len(m.queue) > 0 {
		ev := m.queue[0]
		m.queue = m.queue[1:]
		for _, o := range m.observers {
			o(ev)
		}
	}
	m.queue = nil
}

// Pending returns the number of queued, undelivered events.
func (m *Machine) Pending() int {
	return len(m.queue)
}

func (m *Machine) emit(ev Event) {
	m.queue = append(m.queue, ev)
}

func (m *Machine) transition(to State) {
	from := m.state
	m.state = to
	m.emit(Event{Kind: EventStateChanged, State: to, Previous: from, Elapsed: m.elapsed})
}
