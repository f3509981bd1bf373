package services

import (
	"jumptimer/internal/providers"
	"jumptimer/internal/speedrun"
)

// SessionObserver turns machine events into log lines and metrics.
type SessionObserver struct {
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewSessionObserver(logger providers.Logger, metrics providers.MetricsProviderInterface) *SessionObserver {
	return &SessionObserver{logger: logger, metrics: metrics}
}

func (o *SessionObserver) Handle(ev speedrun.Event) {
	switch ev.Kind {
	case speedrun.EventStateChanged:
		o.metrics.SetSessionState(ev.State.String())
		o.logger.Debugf(providers.TypeTimer, "Session %s -> %s", ev.Previous, ev.State)
	case speedrun.EventSplitCompleted:
		o.metrics.IncSplits()
		o.logger.Debugf(providers.TypeTimer, "Split %d %q at %s (+%s)",
			ev.Index+1, ev.Checkpoint.Name, ev.Checkpoint.CumulativeDuration, ev.Checkpoint.SplitDuration)
	case speedrun.EventRunCompleted:
		kind := string(ev.Record.Puzzle.Ref.Kind)
		if kind == "" {
			kind = "generic"
		}
		o.metrics.IncRunsCompleted(kind)
		o.metrics.ObserveRunDuration(ev.Record.TotalDuration)
		o.logger.Infof(providers.TypeTimer, "Run %s finished on %s in %s, %d/%d splits",
			ev.Record.ID, ev.Record.Puzzle.Ref, ev.Record.TotalDuration, ev.Record.CompletedSplits(), len(ev.Record.Checkpoints))
	}
}
