package models

import (
	"fmt"
	"strings"
)

type PuzzleKind string

const (
	PuzzleGeneric PuzzleKind = ""
	PuzzleCatalog PuzzleKind = "catalog"
	PuzzleCustom  PuzzleKind = "custom"
)

// PuzzleRef is a tagged reference: a generic (unassigned) slot, a catalog
// puzzle by its directory id, or a user-authored custom puzzle by its id.
// Only the field matching Kind is meaningful.
type PuzzleRef struct {
	Kind      PuzzleKind `json:"kind,omitempty"`
	CatalogID uint32     `json:"catalogId,omitempty"`
	CustomID  string     `json:"customId,omitempty"`
}

func GenericRef() PuzzleRef {
	return PuzzleRef{}
}

func CatalogRef(id uint32) PuzzleRef {
	return PuzzleRef{Kind: PuzzleCatalog, CatalogID: id}
}

func CustomRef(id string) PuzzleRef {
	return PuzzleRef{Kind: PuzzleCustom, CustomID: id}
}

func (r PuzzleRef) IsGeneric() bool { return r.Kind == PuzzleGeneric }
func (r PuzzleRef) IsCatalog() bool { return r.Kind == PuzzleCatalog }
func (r PuzzleRef) IsCustom() bool  { return r.Kind == PuzzleCustom }

// Validate reports references whose fields disagree with their kind.
func (r PuzzleRef) Validate() error {
	switch r.Kind {
	case PuzzleGeneric:
		if r.CatalogID != 0 || r.CustomID != "" {
			return fmt.Errorf("generic puzzle ref carries ids (catalog=%d, custom=%q)", r.CatalogID, r.CustomID)
		}
	case PuzzleCatalog:
		if r.CustomID != "" {
			return fmt.Errorf("catalog puzzle ref %d also carries custom id %q", r.CatalogID, r.CustomID)
		}
	case PuzzleCustom:
		if r.CatalogID != 0 {
			return fmt.Errorf("custom puzzle ref %q also carries catalog id %d", r.CustomID, r.CatalogID)
		}
	default:
		return fmt.Errorf("unknown puzzle kind %q", r.Kind)
	}
	return nil
}

func (r PuzzleRef) String() string {
	switch r.Kind {
	case PuzzleCatalog:
		return fmt.Sprintf("catalog:%d", r.CatalogID)
	case PuzzleCustom:
		return "custom:" + r.CustomID
	case PuzzleGeneric:
		return "generic"
	default:
		return "invalid:" + string(r.Kind)
	}
}

// PuzzleIdentity is a reference plus the denormalized fields shown to users.
type PuzzleIdentity struct {
	Ref   PuzzleRef `json:"ref"`
	Name  string    `json:"name,omitempty"`
	World string    `json:"world,omitempty"`
}

func (p PuzzleIdentity) Validate() error {
	if err := p.Ref.Validate(); err != nil {
		return err
	}
	if p.Ref.IsCustom() && p.Ref.CustomID == "" && strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("custom puzzle ref has neither id nor name")
	}
	return nil
}

// SamePuzzle never matches across kinds. Custom puzzles compare by id when
// both sides carry one and fall back to a case-insensitive name match.
func (p PuzzleIdentity) SamePuzzle(o PuzzleIdentity) bool {
	if p.Ref.Kind != o.Ref.Kind {
		return false
	}
	switch p.Ref.Kind {
	case PuzzleCatalog:
		return p.Ref.CatalogID == o.Ref.CatalogID
	case PuzzleCustom:
		if p.Ref.CustomID != "" && o.Ref.CustomID != "" {
			return p.Ref.CustomID == o.Ref.CustomID
		}
		name := strings.TrimSpace(p.Name)
		return name != "" && strings.EqualFold(name, strings.TrimSpace(o.Name))
	default:
		return true
	}
}
