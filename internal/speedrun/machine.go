package speedrun

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
	"jumptimer/internal/structures"
)

const (
	DefaultCountdownTicks = 3
	DefaultTickLength     = time.Second
)

type Options struct {
	CountdownTicks int
	TickLength     time.Duration
	AutoSave       bool
}

func OptionsFromConfig(conf *structures.Config) Options {
	opts := Options{
		CountdownTicks: conf.Timer.CountdownTicks,
		TickLength:     conf.Timer.TickLength,
		AutoSave:       conf.Timer.AutoSave,
	}
	if opts.TickLength <= 0 {
		opts.TickLength = DefaultTickLength
	}
	if opts.CountdownTicks < 0 {
		opts.CountdownTicks = DefaultCountdownTicks
	}
	return opts
}

// Machine is the session state machine for one timed attempt:
//
//	Idle -> Countdown -> Running -> Finished -> Idle
//
// ResetTimer returns to Idle from any state. Operations called outside their
// guard state change nothing and report false. Machine is not safe for
// concurrent use; Driver serializes access to it.
type Machine struct {
	opts   Options
	clock  Clock
	sink   RecordSink
	logger providers.Logger

	state State

	puzzle      models.PuzzleIdentity
	hasPuzzle   bool
	template    models.Template
	hasTemplate bool

	checkpoints  []models.Checkpoint
	cursor       int
	customFields map[string]string

	countdownStart time.Time
	remaining      int
	runStart       time.Time
	elapsed        time.Duration

	lastRecord models.Record
	hasRecord  bool

	queue     []Event
	observers []Observer
	flushing  bool
}

func NewMachine(opts Options, clock Clock, sink RecordSink, logger providers.Logger) *Machine {
	if opts.TickLength <= 0 {
		opts.TickLength = DefaultTickLength
	}
	return &Machine{
		opts:        opts,
		clock:       clock,
		sink:        sink,
		logger:      logger,
		checkpoints: []models.Checkpoint{},
	}
}

func NewMachineFromConfig(conf *structures.Config, clock Clock, sink RecordSink, logger providers.Logger) *Machine {
	return NewMachine(OptionsFromConfig(conf), clock, sink, logger)
}

// SelectPuzzle binds the puzzle future runs are recorded against. It is
// rejected while an attempt is live. A finished session is reset first. A
// bound template that does not apply to the new puzzle is released.
func (m *Machine) SelectPuzzle(p models.PuzzleIdentity) bool {
	if m.live() {
		return false
	}
	if m.state == StateFinished {
		m.ResetTimer()
	}
	m.puzzle = p
	m.hasPuzzle = true
	if m.hasTemplate && !m.template.AppliesTo(p) {
		m.template = models.Template{}
		m.hasTemplate = false
		m.checkpoints = m.pending()
	}
	return true
}

// ClearPuzzle drops the bound puzzle under the same rules as SelectPuzzle.
func (m *Machine) ClearPuzzle() bool {
	if m.live() {
		return false
	}
	if m.state == StateFinished {
		m.ResetTimer()
	}
	m.puzzle = models.PuzzleIdentity{}
	m.hasPuzzle = false
	return true
}

// SelectTemplate binds the checkpoint definitions copied into the next run.
// A nil template unbinds. Rules match SelectPuzzle.
func (m *Machine) SelectTemplate(t *models.Template) bool {
	if m.live() {
		return false
	}
	if m.state == StateFinished {
		m.ResetTimer()
	}
	if t == nil {
		m.template = models.Template{}
		m.hasTemplate = false
	} else {
		m.template = t.Clone()
		m.hasTemplate = true
	}
	m.checkpoints = m.pending()
	m.cursor = 0
	return true
}

// StartCountdown begins an attempt from Idle. With a zero-tick countdown the
// run starts immediately.
func (m *Machine) StartCountdown(customFields map[string]string) bool {
	if m.state != StateIdle {
		return false
	}
	now := m.clock.Now()

	m.customFields = maps.Clone(customFields)
	if m.customFields == nil {
		m.customFields = map[string]string{}
	}
	m.checkpoints = m.pending()
	m.cursor = 0
	m.elapsed = 0
	m.countdownStart = now
	m.remaining = m.opts.CountdownTicks
	m.transition(StateCountdown)

	if m.opts.CountdownTicks <= 0 {
		m.beginRun(now)
	}
	return true
}

// SkipCountdown moves Countdown straight to Running. It does nothing in any
// other state.
func (m *Machine) SkipCountdown() bool {
	if m.state != StateCountdown {
		return false
	}
	m.beginRun(m.clock.Now())
	return true
}

// Update advances the session to now. During a countdown it emits a tick each
// time the whole number of remaining ticks changes and starts the run at the
// countdown deadline. While running it emits the elapsed time on every call.
func (m *Machine) Update(now time.Time) {
	switch m.state {
	case StateCountdown:
		total := time.Duration(m.opts.CountdownTicks) * m.opts.TickLength
		since := max(now.Sub(m.countdownStart), 0)
		if since < total {
			left := total - since
			rem := int((left + m.opts.TickLength - 1) / m.opts.TickLength)
			if rem != m.remaining {
				m.remaining = rem
				m.emit(Event{Kind: EventCountdownTick, State: m.state, Remaining: rem})
			}
			return
		}
		if m.remaining != 0 {
			m.remaining = 0
			m.emit(Event{Kind: EventCountdownTick, State: m.state, Remaining: 0})
		}
		m.beginRun(m.countdownStart.Add(total))
		fallthrough
	case StateRunning:
		m.elapsed = max(now.Sub(m.runStart), m.elapsed)
		m.emit(Event{Kind: EventTimeUpdated, State: m.state, Elapsed: m.elapsed})
	}
}

// MarkSplit marks the next unmarked checkpoint at the current elapsed time.
// Once every checkpoint is marked it does nothing, elapsed included.
func (m *Machine) MarkSplit() bool {
	if m.state != StateRunning || m.cursor >= len(m.checkpoints) {
		return false
	}
	elapsed := m.sample()

	var previous time.Duration
	if m.cursor > 0 {
		previous = m.checkpoints[m.cursor-1].CumulativeDuration
	}
	cp := &m.checkpoints[m.cursor]
	cp.CumulativeDuration = elapsed
	cp.SplitDuration = elapsed - previous
	cp.IsCompleted = true

	m.emit(Event{
		Kind:       EventSplitCompleted,
		State:      m.state,
		Elapsed:    elapsed,
		Index:      m.cursor,
		Checkpoint: *cp,
	})
	m.cursor++
	return true
}

// StopTimer finishes the run and produces its Record.
func (m *Machine) StopTimer() bool {
	if m.state != StateRunning {
		return false
	}
	total := m.sample()

	record := models.Record{
		ID:            uuid.NewString(),
		TotalDuration: total,
		CompletedAt:   m.clock.Now(),
		Checkpoints:   models.CloneCheckpoints(m.checkpoints),
		CustomFields:  maps.Clone(m.customFields),
	}
	if m.hasPuzzle {
		record.Puzzle = m.puzzle
	}
	if m.hasTemplate {
		record.TemplateID = m.template.ID
	}

	m.lastRecord = record
	m.hasRecord = true
	m.transition(StateFinished)

	if m.opts.AutoSave && m.sink != nil {
		if err := m.sink.Append(record.Clone()); err != nil {
			m.logger.Errorf(providers.TypeTimer, "Auto-save of record %s failed: %s", record.ID, err)
		}
	}

	m.emit(Event{Kind: EventRunCompleted, State: m.state, Elapsed: total, Record: record.Clone()})
	return true
}

// ResetTimer discards any unfinished timing and returns to Idle. It always
// succeeds; the last finished Record stays readable.
func (m *Machine) ResetTimer() {
	m.elapsed = 0
	m.remaining = 0
	m.countdownStart = time.Time{}
	m.runStart = time.Time{}
	m.customFields = nil
	m.checkpoints = m.pending()
	m.cursor = 0
	m.transition(StateIdle)
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Elapsed() time.Duration { return m.elapsed }

func (m *Machine) CountdownRemaining() int { return m.remaining }

// Checkpoints returns a copy of the live checkpoint list.
func (m *Machine) Checkpoints() []models.Checkpoint {
	return models.CloneCheckpoints(m.checkpoints)
}

// Cursor is the index of the next checkpoint MarkSplit will mark.
func (m *Machine) Cursor() int { return m.cursor }

func (m *Machine) Puzzle() (models.PuzzleIdentity, bool) {
	return m.puzzle, m.hasPuzzle
}

func (m *Machine) Template() (models.Template, bool) {
	if !m.hasTemplate {
		return models.Template{}, false
	}
	return m.template.Clone(), true
}

func (m *Machine) CustomFields() map[string]string {
	return maps.Clone(m.customFields)
}

func (m *Machine) LastRecord() (models.Record, bool) {
	if !m.hasRecord {
		return models.Record{}, false
	}
	return m.lastRecord.Clone(), true
}

func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		State:              m.state,
		Elapsed:            m.elapsed,
		CountdownRemaining: m.remaining,
		Checkpoints:        m.Checkpoints(),
		Cursor:             m.cursor,
		CustomFields:       m.CustomFields(),
	}
	if p, ok := m.Puzzle(); ok {
		s.Puzzle = &p
	}
	if t, ok := m.Template(); ok {
		s.Template = &t
	}
	if r, ok := m.LastRecord(); ok {
		s.LastRecord = &r
	}
	return s
}

func (m *Machine) live() bool {
	return m.state == StateCountdown || m.state == StateRunning
}

func (m *Machine) beginRun(start time.Time) {
	m.runStart = start
	m.elapsed = 0
	m.remaining = 0
	m.cursor = 0
	m.checkpoints = m.pending()
	m.transition(StateRunning)
}

// sample refreshes elapsed from the clock without letting it move backwards.
func (m *Machine) sample() time.Duration {
	m.elapsed = max(m.clock.Now().Sub(m.runStart), m.elapsed)
	return m.elapsed
}

func (m *Machine) pending() []models.Checkpoint {
	if !m.hasTemplate {
		return []models.Checkpoint{}
	}
	return models.CloneDefinitions(m.template.Checkpoints)
}
