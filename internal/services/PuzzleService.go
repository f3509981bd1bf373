package services

import (
	"strings"

	"jumptimer/internal/models"
	"jumptimer/internal/persistence"
	"jumptimer/internal/persistence/interfaces"
	"jumptimer/internal/providers"
	"jumptimer/internal/speedrun"
)

const PuzzlesCollection = "puzzles"

type PuzzleServiceInterface interface {
	interfaces.StoreInterface
	Create(name, description, creator, world string) (models.CustomPuzzle, error)
	Update(puzzle models.CustomPuzzle) (models.CustomPuzzle, error)
	Remove(id string) error
	Get(id string) (models.CustomPuzzle, bool)
	ListAll() []models.CustomPuzzle
	Revision() uint64
}

// PuzzleService is the registry of user-authored puzzles.
type PuzzleService struct {
	*collectionStore[models.CustomPuzzle]
	clock speedrun.Clock
}

func NewPuzzleService(files *persistence.FileManager, clock speedrun.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) PuzzleServiceInterface {
	return &PuzzleService{
		collectionStore: newCollectionStore[models.CustomPuzzle](PuzzlesCollection, files, logger, metrics, nil),
		clock:           clock,
	}
}

func (ps *PuzzleService) Create(name, description, creator, world string) (models.CustomPuzzle, error) {
	if strings.TrimSpace(name) == "" {
		return models.CustomPuzzle{}, ErrInvalidName
	}
	p := models.NewCustomPuzzle(name, description, creator, world, ps.clock.Now())
	ps.items.Put(p)
	ps.changed()
	return p, nil
}

func (ps *PuzzleService) Update(puzzle models.CustomPuzzle) (models.CustomPuzzle, error) {
	existing, ok := ps.items.Get(puzzle.ID)
	if !ok {
		return models.CustomPuzzle{}, ErrPuzzleNotFound
	}
	if strings.TrimSpace(puzzle.Name) == "" {
		return models.CustomPuzzle{}, ErrInvalidName
	}
	existing.Name = strings.TrimSpace(puzzle.Name)
	existing.Description = strings.TrimSpace(puzzle.Description)
	existing.Creator = strings.TrimSpace(puzzle.Creator)
	existing.World = strings.TrimSpace(puzzle.World)
	existing.ModifiedAt = ps.clock.Now()
	ps.items.Put(existing)
	ps.changed()
	return existing, nil
}

func (ps *PuzzleService) Remove(id string) error {
	if !ps.items.Remove(id) {
		return ErrPuzzleNotFound
	}
	ps.changed()
	return nil
}

func (ps *PuzzleService) Get(id string) (models.CustomPuzzle, bool) {
	return ps.items.Get(id)
}

func (ps *PuzzleService) ListAll() []models.CustomPuzzle {
	return ps.items.List()
}
