package models

import (
	"sort"
	"time"
)

// Checkpoint is one split point. Definitions held by templates never carry
// timing; session and record copies fill in the timing fields when marked.
type Checkpoint struct {
	Name               string        `json:"name"`
	Order              int           `json:"order"`
	CumulativeDuration time.Duration `json:"cumulativeDuration,omitempty"`
	SplitDuration      time.Duration `json:"splitDuration,omitempty"`
	IsCompleted        bool          `json:"isCompleted,omitempty"`
}

// Definition returns the checkpoint without any timing results.
func (c Checkpoint) Definition() Checkpoint {
	return Checkpoint{Name: c.Name, Order: c.Order}
}

// SortCheckpoints orders by Order; equal values keep their input order.
func SortCheckpoints(cps []Checkpoint) {
	sort.SliceStable(cps, func(i, j int) bool {
		return cps[i].Order < cps[j].Order
	})
}

// CloneCheckpoints returns an ordered copy including timing results.
func CloneCheckpoints(cps []Checkpoint) []Checkpoint {
	out := make([]Checkpoint, len(cps))
	copy(out, cps)
	SortCheckpoints(out)
	return out
}

// CloneDefinitions returns an ordered copy with timing stripped.
func CloneDefinitions(cps []Checkpoint) []Checkpoint {
	out := make([]Checkpoint, len(cps))
	for i, c := range cps {
		out[i] = c.Definition()
	}
	SortCheckpoints(out)
	return out
}

func renumber(cps []Checkpoint) {
	for i := range cps {
		cps[i].Order = i
	}
}
