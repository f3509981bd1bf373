package speedrun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jumptimer/internal/models"
	"jumptimer/internal/testutil"
)

type recorder struct {
	events []Event
}

func (r *recorder) observe(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) count(k EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

func threeSplitTemplate() *models.Template {
	return &models.Template{
		ID:   "tpl-1",
		Name: "Three",
		Checkpoints: []models.Checkpoint{
			{Name: "Start", Order: 0},
			{Name: "Mid", Order: 1},
			{Name: "End", Order: 2},
		},
	}
}

func newTestMachine(opts Options) (*Machine, *testutil.FakeClock, *testutil.MockRecordSink, *recorder) {
	clock := testutil.NewFakeClock()
	sink := &testutil.MockRecordSink{}
	m := NewMachine(opts, clock, sink, &testutil.MockLogger{})
	rec := &recorder{}
	m.Subscribe(rec.observe)
	return m, clock, sink, rec
}

func defaultOpts() Options {
	return Options{CountdownTicks: 3, TickLength: time.Second, AutoSave: true}
}

func TestMachine_ThreeSplitScenario(t *testing.T) {
	m, clock, sink, _ := newTestMachine(defaultOpts())
	require.True(t, m.SelectTemplate(threeSplitTemplate()))

	require.True(t, m.StartCountdown(map[string]string{}))
	require.True(t, m.SkipCountdown())
	assert.Equal(t, StateRunning, m.State())

	clock.Advance(1500 * time.Millisecond)
	require.True(t, m.MarkSplit())
	clock.Advance(1000 * time.Millisecond)
	require.True(t, m.MarkSplit())
	clock.Advance(500 * time.Millisecond)
	require.True(t, m.MarkSplit())
	require.True(t, m.StopTimer())

	record, ok := m.LastRecord()
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, record.TotalDuration)
	assert.Equal(t, "tpl-1", record.TemplateID)
	require.Len(t, record.Checkpoints, 3)

	want := []struct {
		name       string
		cumulative time.Duration
		split      time.Duration
	}{
		{"Start", 1500 * time.Millisecond, 1500 * time.Millisecond},
		{"Mid", 2500 * time.Millisecond, 1000 * time.Millisecond},
		{"End", 3000 * time.Millisecond, 500 * time.Millisecond},
	}
	for i, w := range want {
		cp := record.Checkpoints[i]
		assert.Equal(t, w.name, cp.Name)
		assert.True(t, cp.IsCompleted)
		assert.Equal(t, w.cumulative, cp.CumulativeDuration)
		assert.Equal(t, w.split, cp.SplitDuration)
	}

	require.Len(t, sink.Records, 1)
	assert.Equal(t, record.ID, sink.Records[0].ID)
}

func TestMachine_SplitDurationsChain(t *testing.T) {
	m, clock, _, _ := newTestMachine(defaultOpts())
	tpl := &models.Template{ID: "t", Checkpoints: []models.Checkpoint{
		{Name: "a", Order: 0}, {Name: "b", Order: 1}, {Name: "c", Order: 2}, {Name: "d", Order: 3},
	}}
	m.SelectTemplate(tpl)
	m.StartCountdown(nil)
	m.SkipCountdown()

	for _, step := range []time.Duration{700, 1300, 20, 4000} {
		clock.Advance(step * time.Millisecond)
		m.Update(clock.Now())
		m.MarkSplit()
	}

	cps := m.Checkpoints()
	assert.Equal(t, cps[0].CumulativeDuration, cps[0].SplitDuration)
	for i := 1; i < len(cps); i++ {
		assert.Equal(t, cps[i].CumulativeDuration-cps[i-1].CumulativeDuration, cps[i].SplitDuration)
	}
}

func TestMachine_MarkSplitBeyondTemplateIsNoop(t *testing.T) {
	m, clock, _, rec := newTestMachine(defaultOpts())
	m.SelectTemplate(threeSplitTemplate())
	m.StartCountdown(nil)
	m.SkipCountdown()

	marked := 0
	for i := 0; i < 6; i++ {
		clock.Advance(time.Second)
		if m.MarkSplit() {
			marked++
		}
	}
	m.Flush()

	assert.Equal(t, 3, marked)
	assert.Equal(t, 3, m.Cursor())
	assert.Equal(t, 3, rec.count(EventSplitCompleted))
	// the extra calls do not advance elapsed past the last mark
	assert.Equal(t, 3*time.Second, m.Elapsed())
}

func TestMachine_EmptyTemplateStillYieldsRecord(t *testing.T) {
	m, clock, sink, _ := newTestMachine(defaultOpts())
	m.StartCountdown(nil)
	m.SkipCountdown()

	assert.False(t, m.MarkSplit())
	clock.Advance(42 * time.Second)
	require.True(t, m.StopTimer())

	record, ok := m.LastRecord()
	require.True(t, ok)
	assert.Empty(t, record.Checkpoints)
	assert.Equal(t, 42*time.Second, record.TotalDuration)
	assert.Empty(t, record.TemplateID)
	assert.True(t, record.Puzzle.Ref.IsGeneric())
	assert.Len(t, sink.Records, 1)
}

func TestMachine_GuardsLeaveStateUnchanged(t *testing.T) {
	m, _, _, rec := newTestMachine(defaultOpts())

	assert.False(t, m.SkipCountdown())
	assert.False(t, m.MarkSplit())
	assert.False(t, m.StopTimer())
	assert.Equal(t, StateIdle, m.State())

	m.StartCountdown(nil)
	assert.False(t, m.StartCountdown(nil))
	assert.False(t, m.MarkSplit())
	assert.False(t, m.StopTimer())
	assert.False(t, m.SelectTemplate(threeSplitTemplate()))
	assert.False(t, m.SelectPuzzle(models.PuzzleIdentity{Ref: models.CatalogRef(7)}))
	assert.Equal(t, StateCountdown, m.State())

	m.SkipCountdown()
	assert.False(t, m.StartCountdown(nil))
	assert.False(t, m.SkipCountdown())
	assert.False(t, m.SelectTemplate(nil))
	assert.False(t, m.ClearPuzzle())
	assert.Equal(t, StateRunning, m.State())

	m.StopTimer()
	assert.False(t, m.StartCountdown(nil))
	assert.False(t, m.MarkSplit())
	assert.False(t, m.StopTimer())
	assert.False(t, m.SkipCountdown())
	assert.Equal(t, StateFinished, m.State())

	m.Flush()
	var edges [][2]State
	for _, ev := range rec.events {
		if ev.Kind == EventStateChanged {
			edges = append(edges, [2]State{ev.Previous, ev.State})
		}
	}
	assert.Equal(t, [][2]State{
		{StateIdle, StateCountdown},
		{StateCountdown, StateRunning},
		{StateRunning, StateFinished},
	}, edges)
}

func TestMachine_ResetMidRunDiscardsMarks(t *testing.T) {
	m, clock, sink, _ := newTestMachine(defaultOpts())
	m.SelectTemplate(threeSplitTemplate())
	m.StartCountdown(nil)
	m.SkipCountdown()
	clock.Advance(5 * time.Second)
	m.Update(clock.Now())
	m.MarkSplit()

	m.ResetTimer()
	assert.Equal(t, StateIdle, m.State())
	assert.Zero(t, m.Elapsed())
	assert.Zero(t, m.Cursor())
	for _, cp := range m.Checkpoints() {
		assert.False(t, cp.IsCompleted)
		assert.Zero(t, cp.CumulativeDuration)
	}

	m.StartCountdown(nil)
	m.SkipCountdown()
	assert.Zero(t, m.Elapsed())
	clock.Advance(time.Second)
	m.Update(clock.Now())
	assert.Equal(t, time.Second, m.Elapsed())
	assert.Empty(t, sink.Records)
}

func TestMachine_ResetFromEveryState(t *testing.T) {
	for _, setup := range []func(m *Machine){
		func(m *Machine) {},
		func(m *Machine) { m.StartCountdown(nil) },
		func(m *Machine) { m.StartCountdown(nil); m.SkipCountdown() },
		func(m *Machine) { m.StartCountdown(nil); m.SkipCountdown(); m.StopTimer() },
	} {
		m, _, _, _ := newTestMachine(defaultOpts())
		setup(m)
		m.ResetTimer()
		assert.Equal(t, StateIdle, m.State())
		assert.Zero(t, m.CountdownRemaining())
	}
}

func TestMachine_CountdownTicksOnlyOnChange(t *testing.T) {
	m, clock, _, rec := newTestMachine(defaultOpts())
	m.StartCountdown(map[string]string{"Party Size": "4"})
	assert.Equal(t, 3, m.CountdownRemaining())

	start := clock.Now()
	for _, at := range []time.Duration{100, 400, 900, 1000, 1500, 2000, 2999} {
		m.Update(start.Add(at * time.Millisecond))
	}
	m.Flush()

	var ticks []int
	for _, ev := range rec.events {
		if ev.Kind == EventCountdownTick {
			ticks = append(ticks, ev.Remaining)
		}
	}
	assert.Equal(t, []int{2, 1}, ticks)
	assert.Equal(t, StateCountdown, m.State())
	assert.Zero(t, rec.count(EventTimeUpdated))
}

func TestMachine_CountdownAutoStartsAtDeadline(t *testing.T) {
	m, clock, _, rec := newTestMachine(defaultOpts())
	m.SelectTemplate(threeSplitTemplate())
	m.StartCountdown(nil)

	// a dropped frame: first update lands 250ms after the deadline
	clock.Advance(3250 * time.Millisecond)
	m.Update(clock.Now())
	m.Flush()

	assert.Equal(t, StateRunning, m.State())
	assert.Equal(t, 250*time.Millisecond, m.Elapsed())
	assert.Equal(t, 1, rec.count(EventTimeUpdated))
	assert.Len(t, m.Checkpoints(), 3)

	clock.Advance(750 * time.Millisecond)
	m.MarkSplit()
	assert.Equal(t, time.Second, m.Checkpoints()[0].CumulativeDuration)
}

func TestMachine_ZeroTickCountdownStartsImmediately(t *testing.T) {
	m, _, _, rec := newTestMachine(Options{CountdownTicks: 0, TickLength: time.Second})
	require.True(t, m.StartCountdown(nil))
	m.Flush()

	assert.Equal(t, StateRunning, m.State())
	assert.Equal(t, []EventKind{EventStateChanged, EventStateChanged}, rec.kinds())
}

func TestMachine_TimeUpdatedEveryRunningFrame(t *testing.T) {
	m, clock, _, rec := newTestMachine(defaultOpts())
	m.StartCountdown(nil)
	m.SkipCountdown()
	for i := 0; i < 5; i++ {
		m.Update(clock.Now())
	}
	m.Flush()
	assert.Equal(t, 5, rec.count(EventTimeUpdated))
}

func TestMachine_ElapsedNeverRunsBackwards(t *testing.T) {
	m, clock, _, _ := newTestMachine(defaultOpts())
	m.StartCountdown(nil)
	m.SkipCountdown()

	m.Update(clock.Now().Add(2 * time.Second))
	m.Update(clock.Now().Add(time.Second))
	assert.Equal(t, 2*time.Second, m.Elapsed())
}

func TestMachine_StopEmitsStateChangedThenRunCompleted(t *testing.T) {
	m, clock, _, rec := newTestMachine(defaultOpts())
	m.StartCountdown(map[string]string{"Party Size": "4"})
	m.SkipCountdown()
	m.Flush()
	rec.events = nil

	clock.Advance(10 * time.Second)
	m.StopTimer()
	m.Flush()

	require.Equal(t, []EventKind{EventStateChanged, EventRunCompleted}, rec.kinds())
	run := rec.events[1].Record
	assert.Equal(t, 10*time.Second, run.TotalDuration)
	assert.Equal(t, map[string]string{"Party Size": "4"}, run.CustomFields)
	assert.Equal(t, clock.Now(), run.CompletedAt)
}

func TestMachine_AutoSaveDisabled(t *testing.T) {
	opts := defaultOpts()
	opts.AutoSave = false
	m, _, sink, _ := newTestMachine(opts)
	m.StartCountdown(nil)
	m.SkipCountdown()
	m.StopTimer()

	assert.Empty(t, sink.Records)
	_, ok := m.LastRecord()
	assert.True(t, ok)
}

func TestMachine_AutoSaveFailureIsLoggedNotFatal(t *testing.T) {
	clock := testutil.NewFakeClock()
	sink := &testutil.MockRecordSink{Err: testutil.ErrSinkUnavailable}
	logger := &testutil.MockLogger{}
	m := NewMachine(defaultOpts(), clock, sink, logger)

	m.StartCountdown(nil)
	m.SkipCountdown()
	assert.True(t, m.StopTimer())
	assert.Equal(t, StateFinished, m.State())
	assert.Equal(t, 1, logger.Count("error"))
}

func TestMachine_RecordDoesNotAliasSession(t *testing.T) {
	m, clock, _, _ := newTestMachine(defaultOpts())
	tpl := threeSplitTemplate()
	m.SelectTemplate(tpl)
	fields := map[string]string{"Party Size": "4"}
	m.StartCountdown(fields)
	m.SkipCountdown()
	clock.Advance(time.Second)
	m.MarkSplit()
	m.StopTimer()

	// mutating the inputs after the fact must not reach the record
	tpl.Checkpoints[0].Name = "Renamed"
	fields["Party Size"] = "8"

	record, _ := m.LastRecord()
	assert.Equal(t, "Start", record.Checkpoints[0].Name)
	assert.Equal(t, "4", record.CustomFields["Party Size"])

	// nor can a caller mutate the stored record through an accessor
	record.Checkpoints[0].Name = "Hacked"
	again, _ := m.LastRecord()
	assert.Equal(t, "Start", again.Checkpoints[0].Name)

	bound, _ := m.Template()
	assert.Equal(t, "Start", bound.Checkpoints[0].Name)
}

func TestMachine_TemplateCopiesNeverCarryTiming(t *testing.T) {
	m, clock, _, _ := newTestMachine(defaultOpts())
	tpl := threeSplitTemplate()
	tpl.Checkpoints[0].IsCompleted = true
	tpl.Checkpoints[0].CumulativeDuration = time.Minute
	m.SelectTemplate(tpl)

	for _, cp := range m.Checkpoints() {
		assert.False(t, cp.IsCompleted)
		assert.Zero(t, cp.CumulativeDuration)
		assert.Zero(t, cp.SplitDuration)
	}

	m.StartCountdown(nil)
	m.SkipCountdown()
	clock.Advance(time.Second)
	m.MarkSplit()
	bound, _ := m.Template()
	assert.False(t, bound.Checkpoints[0].IsCompleted)
}

func TestMachine_EqualOrderKeepsInputOrder(t *testing.T) {
	m, _, _, _ := newTestMachine(defaultOpts())
	m.SelectTemplate(&models.Template{ID: "t", Checkpoints: []models.Checkpoint{
		{Name: "Zeta", Order: 1},
		{Name: "Beta", Order: 0},
		{Name: "Alpha", Order: 1},
	}})

	names := []string{}
	for _, cp := range m.Checkpoints() {
		names = append(names, cp.Name)
	}
	assert.Equal(t, []string{"Beta", "Zeta", "Alpha"}, names)
}

func TestMachine_SelectPuzzleReleasesForeignTemplate(t *testing.T) {
	m, _, _, _ := newTestMachine(defaultOpts())
	catalog := models.PuzzleIdentity{Ref: models.CatalogRef(12), Name: "Kugane Tower"}
	other := models.PuzzleIdentity{Ref: models.CatalogRef(13), Name: "Moonfire Faire"}

	tpl := threeSplitTemplate()
	tpl.Puzzle = catalog
	require.True(t, m.SelectPuzzle(catalog))
	require.True(t, m.SelectTemplate(tpl))
	assert.Len(t, m.Checkpoints(), 3)

	require.True(t, m.SelectPuzzle(other))
	_, bound := m.Template()
	assert.False(t, bound)
	assert.Empty(t, m.Checkpoints())

	generic := threeSplitTemplate()
	require.True(t, m.SelectTemplate(generic))
	require.True(t, m.SelectPuzzle(catalog))
	_, bound = m.Template()
	assert.True(t, bound)
}

func TestMachine_SelectInFinishedResetsFirst(t *testing.T) {
	m, _, _, _ := newTestMachine(defaultOpts())
	m.StartCountdown(nil)
	m.SkipCountdown()
	m.StopTimer()

	require.True(t, m.SelectPuzzle(models.PuzzleIdentity{Ref: models.CatalogRef(1)}))
	assert.Equal(t, StateIdle, m.State())
	_, ok := m.LastRecord()
	assert.True(t, ok)
}

func TestMachine_RecordCarriesPuzzle(t *testing.T) {
	m, _, _, _ := newTestMachine(defaultOpts())
	p := models.PuzzleIdentity{Ref: models.CustomRef("abc"), Name: "Backyard Climb", World: "Twintania"}
	m.SelectPuzzle(p)
	m.StartCountdown(nil)
	m.SkipCountdown()
	m.StopTimer()

	record, _ := m.LastRecord()
	assert.Equal(t, p, record.Puzzle)
}

func TestMachine_ResetInsideRunCompletedObserver(t *testing.T) {
	m, _, _, rec := newTestMachine(defaultOpts())
	m.Subscribe(func(ev Event) {
		if ev.Kind == EventRunCompleted {
			m.ResetTimer()
		}
	})
	m.StartCountdown(nil)
	m.SkipCountdown()
	m.StopTimer()
	assert.Equal(t, StateFinished, m.State())

	m.Flush()
	assert.Equal(t, StateIdle, m.State())
	assert.Zero(t, m.Pending())
	kinds := rec.kinds()
	assert.Equal(t, EventRunCompleted, kinds[len(kinds)-2])
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventStateChanged, last.Kind)
	assert.Equal(t, StateIdle, last.State)
}

func TestMachine_EventsQueuedUntilFlush(t *testing.T) {
	m, _, _, rec := newTestMachine(defaultOpts())
	m.StartCountdown(nil)
	assert.Empty(t, rec.events)
	assert.Equal(t, 1, m.Pending())

	m.Flush()
	assert.Len(t, rec.events, 1)
	assert.Zero(t, m.Pending())
}

func TestMachine_Snapshot(t *testing.T) {
	m, clock, _, _ := newTestMachine(defaultOpts())
	p := models.PuzzleIdentity{Ref: models.CatalogRef(3), Name: "Sylphstep"}
	m.SelectPuzzle(p)
	m.SelectTemplate(threeSplitTemplate())
	m.StartCountdown(map[string]string{"k": "v"})
	m.SkipCountdown()
	clock.Advance(time.Second)
	m.MarkSplit()

	s := m.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, 1, s.Cursor)
	require.NotNil(t, s.Puzzle)
	assert.Equal(t, "Sylphstep", s.Puzzle.Name)
	require.NotNil(t, s.Template)
	assert.Equal(t, "tpl-1", s.Template.ID)
	assert.Nil(t, s.LastRecord)
	assert.Equal(t, "v", s.CustomFields["k"])
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "countdown", StateCountdown.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "finished", StateFinished.String())
}
