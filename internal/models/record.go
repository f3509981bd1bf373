package models

import (
	"maps"
	"sort"
	"strings"
	"time"
)

// Record is the snapshot of one finished attempt. It owns its checkpoint and
// custom field copies; nothing else aliases them.
type Record struct {
	ID            string            `json:"id"`
	Puzzle        PuzzleIdentity    `json:"puzzle"`
	TotalDuration time.Duration     `json:"totalDuration"`
	CompletedAt   time.Time         `json:"completedAt"`
	Checkpoints   []Checkpoint      `json:"checkpoints"`
	CustomFields  map[string]string `json:"customFields"`
	TemplateID    string            `json:"templateId,omitempty"`
}

func (r Record) GetID() string { return r.ID }

func (r Record) Clone() Record {
	r.Checkpoints = CloneCheckpoints(r.Checkpoints)
	r.CustomFields = maps.Clone(r.CustomFields)
	return r
}

// CompletedSplits counts the checkpoints marked during the run.
func (r Record) CompletedSplits() int {
	n := 0
	for _, c := range r.Checkpoints {
		if c.IsCompleted {
			n++
		}
	}
	return n
}

type RecordSort string

const (
	SortByDate     RecordSort = "date"
	SortByDuration RecordSort = "duration"
	SortByPuzzle   RecordSort = "puzzle"
)

// SortRecords sorts in place: newest first by date, fastest first by
// duration, and by puzzle name then world then duration by puzzle.
func SortRecords(records []Record, by RecordSort) {
	switch by {
	case SortByDuration:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].TotalDuration < records[j].TotalDuration
		})
	case SortByPuzzle:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := records[i].Puzzle, records[j].Puzzle
			if n := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); n != 0 {
				return n < 0
			}
			if n := strings.Compare(strings.ToLower(a.World), strings.ToLower(b.World)); n != 0 {
				return n < 0
			}
			return records[i].TotalDuration < records[j].TotalDuration
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CompletedAt.After(records[j].CompletedAt)
		})
	}
}

// SplitDelta compares one checkpoint against the same position in a reference run.
type SplitDelta struct {
	Name         string        `json:"name"`
	Delta        time.Duration `json:"delta"`
	SplitDelta   time.Duration `json:"splitDelta"`
	HasReference bool          `json:"hasReference"`
}

// CompareSplits returns one delta per completed checkpoint in current. A
// positive delta means current is slower than the reference.
func CompareSplits(current, reference []Checkpoint) []SplitDelta {
	cur := CloneCheckpoints(current)
	ref := CloneCheckpoints(reference)

	out := make([]SplitDelta, 0, len(cur))
	for i, c := range cur {
		if !c.IsCompleted {
			continue
		}
		d := SplitDelta{Name: c.Name}
		if i < len(ref) && ref[i].IsCompleted {
			d.HasReference = true
			d.Delta = c.CumulativeDuration - ref[i].CumulativeDuration
			d.SplitDelta = c.SplitDuration - ref[i].SplitDuration
		}
		out = append(out, d)
	}
	return out
}
