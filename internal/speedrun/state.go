package speedrun

import (
	"time"

	"jumptimer/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateCountdown
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Clock supplies the monotonic time used by operations that are not driven
// by an explicit Update call.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock {
	return systemClock{}
}

// RecordSink receives finished runs when auto-save is enabled.
type RecordSink interface {
	Append(record models.Record) error
}

// Snapshot is a copy of the session state taken at one instant.
type Snapshot struct {
	State              State                  `json:"state"`
	Elapsed            time.Duration          `json:"elapsed"`
	CountdownRemaining int                    `json:"countdownRemaining"`
	Checkpoints        []models.Checkpoint    `json:"checkpoints"`
	Cursor             int                    `json:"cursor"`
	Puzzle             *models.PuzzleIdentity `json:"puzzle,omitempty"`
	Template           *models.Template       `json:"template,omitempty"`
	CustomFields       map[string]string      `json:"customFields,omitempty"`
	LastRecord         *models.Record         `json:"lastRecord,omitempty"`
}
