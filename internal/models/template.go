package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Template is a reusable, timing-free list of checkpoints bound to a puzzle
// or, when Puzzle.Ref is generic, to any puzzle.
type Template struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Puzzle      PuzzleIdentity `json:"puzzle"`
	Checkpoints []Checkpoint   `json:"checkpoints"`
	CreatedAt   time.Time      `json:"createdAt"`
	ModifiedAt  time.Time      `json:"modifiedAt"`
}

func NewTemplate(name string, puzzle PuzzleIdentity, now time.Time) Template {
	return Template{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Puzzle:      puzzle,
		Checkpoints: []Checkpoint{},
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

func (t Template) GetID() string { return t.ID }

func (t Template) Clone() Template {
	t.Checkpoints = CloneDefinitions(t.Checkpoints)
	return t
}

func (t Template) IsGeneric() bool { return t.Puzzle.Ref.IsGeneric() }

// IsCustomPuzzle is derived from the reference kind, so a custom template
// can never also hold a catalog id.
func (t Template) IsCustomPuzzle() bool { return t.Puzzle.Ref.IsCustom() }

// AppliesTo reports whether the template is offered for the given puzzle.
// Generic templates apply to every puzzle.
func (t Template) AppliesTo(p PuzzleIdentity) bool {
	if t.IsGeneric() {
		return true
	}
	return t.Puzzle.SamePuzzle(p)
}

func (t *Template) AddCheckpoint(name string, now time.Time) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	cps := CloneDefinitions(t.Checkpoints)
	t.Checkpoints = append(cps, Checkpoint{Name: name, Order: len(cps)})
	t.touch(now)
	return true
}

func (t *Template) RemoveCheckpoint(i int, now time.Time) bool {
	if i < 0 || i >= len(t.Checkpoints) {
		return false
	}
	cps := CloneDefinitions(t.Checkpoints)
	t.Checkpoints = append(cps[:i], cps[i+1:]...)
	t.touch(now)
	return true
}

func (t *Template) MoveCheckpoint(from, to int, now time.Time) bool {
	n := len(t.Checkpoints)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	cps := CloneDefinitions(t.Checkpoints)
	moved := cps[from]
	rest := append(cps[:from:from], cps[from+1:]...)
	out := make([]Checkpoint, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	t.Checkpoints = out
	t.touch(now)
	return true
}

func (t *Template) RenameCheckpoint(i int, name string, now time.Time) bool {
	name = strings.TrimSpace(name)
	if i < 0 || i >= len(t.Checkpoints) || name == "" {
		return false
	}
	cps := CloneDefinitions(t.Checkpoints)
	cps[i].Name = name
	t.Checkpoints = cps
	t.touch(now)
	return true
}

func (t *Template) touch(now time.Time) {
	renumber(t.Checkpoints)
	t.ModifiedAt = now
}
