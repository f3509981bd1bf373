package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CustomPuzzle is a user-authored stand-in for a catalog puzzle.
type CustomPuzzle struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Creator     string    `json:"creator,omitempty"`
	World       string    `json:"world,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

func NewCustomPuzzle(name, description, creator, world string, now time.Time) CustomPuzzle {
	return CustomPuzzle{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Creator:     strings.TrimSpace(creator),
		World:       strings.TrimSpace(world),
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

func (p CustomPuzzle) GetID() string { return p.ID }

func (p CustomPuzzle) Clone() CustomPuzzle { return p }

// Identity adapts the puzzle to the shape templates and records reference.
func (p CustomPuzzle) Identity() PuzzleIdentity {
	return PuzzleIdentity{
		Ref:   CustomRef(p.ID),
		Name:  p.Name,
		World: p.World,
	}
}
