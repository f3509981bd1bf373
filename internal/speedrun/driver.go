package speedrun

import (
	"context"
	"sync"
	"time"

	"jumptimer/internal/providers"
	"jumptimer/internal/structures"
)

const defaultFrameInterval = 16 * time.Millisecond

// Driver plays the host's frame loop: it owns the machine, feeds it Update
// on a fixed cadence and flushes its events after every call. Commands from
// other goroutines go through Do so the machine only ever sees one caller.
type Driver struct {
	mu       sync.Mutex
	machine  *Machine
	clock    Clock
	interval time.Duration
	logger   providers.Logger
}

func NewDriver(machine *Machine, clock Clock, conf *structures.Config, logger providers.Logger) *Driver {
	interval := conf.Timer.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return &Driver{
		machine:  machine,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Do runs fn against the machine and delivers whatever events it raised.
func (d *Driver) Do(fn func(m *Machine)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.machine)
	d.machine.Flush()
}

// Tick performs one frame.
func (d *Driver) Tick() {
	d.Do(func(m *Machine) {
		m.Update(d.clock.Now())
	})
}

// Run ticks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Infof(providers.TypeTimer, "Frame loop started, interval %s", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Infof(providers.TypeTimer, "Frame loop stopped")
			return
		case <-ticker.C:
			d.Tick()
		}
	}
}
