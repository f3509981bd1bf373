package speedrun

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jumptimer/internal/structures"
	"jumptimer/internal/testutil"
)

func newTestDriver(interval time.Duration) (*Driver, *testutil.FakeClock) {
	clock := testutil.NewFakeClock()
	m := NewMachine(defaultOpts(), clock, &testutil.MockRecordSink{}, &testutil.MockLogger{})
	conf := &structures.Config{Timer: structures.TimerConfig{FrameInterval: interval}}
	return NewDriver(m, clock, conf, &testutil.MockLogger{}), clock
}

func TestDriver_DoFlushesEvents(t *testing.T) {
	d, _ := newTestDriver(time.Millisecond)
	var got []EventKind
	d.Do(func(m *Machine) {
		m.Subscribe(func(ev Event) { got = append(got, ev.Kind) })
	})

	d.Do(func(m *Machine) { m.StartCountdown(nil) })
	assert.Equal(t, []EventKind{EventStateChanged}, got)
}

func TestDriver_TickUsesClock(t *testing.T) {
	d, clock := newTestDriver(time.Millisecond)
	d.Do(func(m *Machine) {
		m.StartCountdown(nil)
		m.SkipCountdown()
	})

	clock.Advance(1200 * time.Millisecond)
	d.Tick()

	var elapsed time.Duration
	d.Do(func(m *Machine) { elapsed = m.Elapsed() })
	assert.Equal(t, 1200*time.Millisecond, elapsed)
}

func TestDriver_RunStopsOnCancel(t *testing.T) {
	d, _ := newTestDriver(time.Millisecond)

	var mu sync.Mutex
	updates := 0
	d.Do(func(m *Machine) {
		m.Subscribe(func(ev Event) {
			if ev.Kind == EventTimeUpdated {
				mu.Lock()
				updates++
				mu.Unlock()
			}
		})
		m.StartCountdown(nil)
		m.SkipCountdown()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return updates >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestNewDriver_DefaultInterval(t *testing.T) {
	d, _ := newTestDriver(0)
	assert.Equal(t, defaultFrameInterval, d.interval)
}
