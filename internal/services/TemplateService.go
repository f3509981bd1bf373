package services

import (
	"fmt"
	"strings"

	"jumptimer/internal/models"
	"jumptimer/internal/persistence"
	"jumptimer/internal/persistence/interfaces"
	"jumptimer/internal/providers"
	"jumptimer/internal/speedrun"
)

const TemplatesCollection = "templates"

type TemplateServiceInterface interface {
	interfaces.StoreInterface
	Create(name string, puzzle models.PuzzleIdentity) (models.Template, error)
	Add(template models.Template) (models.Template, error)
	Update(template models.Template) (models.Template, error)
	Duplicate(id string) (models.Template, error)
	Remove(id string) error
	Get(id string) (models.Template, bool)
	ListAll() []models.Template
	FindApplicable(puzzle models.PuzzleIdentity) []models.Template
	Revision() uint64
}

// TemplateService manages checkpoint templates.
type TemplateService struct {
	*collectionStore[models.Template]
	clock speedrun.Clock
}

func NewTemplateService(files *persistence.FileManager, clock speedrun.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) TemplateServiceInterface {
	return &TemplateService{
		collectionStore: newCollectionStore(TemplatesCollection, files, logger, metrics, func(t models.Template) error {
			return t.Puzzle.Validate()
		}),
		clock: clock,
	}
}

func (ts *TemplateService) Create(name string, puzzle models.PuzzleIdentity) (models.Template, error) {
	if strings.TrimSpace(name) == "" {
		return models.Template{}, ErrInvalidName
	}
	if err := puzzle.Validate(); err != nil {
		return models.Template{}, fmt.Errorf("%w: %w", ErrInvalidPuzzle, err)
	}
	t := models.NewTemplate(name, puzzle, ts.clock.Now())
	ts.items.Put(t)
	ts.changed()
	return t.Clone(), nil
}

// Add stores a template built elsewhere, such as from a record. A missing
// id or timestamp is filled in.
func (ts *TemplateService) Add(template models.Template) (models.Template, error) {
	if strings.TrimSpace(template.Name) == "" {
		return models.Template{}, ErrInvalidName
	}
	if err := template.Puzzle.Validate(); err != nil {
		return models.Template{}, fmt.Errorf("%w: %w", ErrInvalidPuzzle, err)
	}
	fresh := models.NewTemplate(template.Name, template.Puzzle, ts.clock.Now())
	if template.ID == "" {
		template.ID = fresh.ID
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = fresh.CreatedAt
	}
	if template.ModifiedAt.IsZero() {
		template.ModifiedAt = fresh.ModifiedAt
	}
	template = template.Clone()
	ts.items.Put(template)
	ts.changed()
	return template, nil
}

// Update replaces an existing template in place and bumps ModifiedAt.
func (ts *TemplateService) Update(template models.Template) (models.Template, error) {
	existing, ok := ts.items.Get(template.ID)
	if !ok {
		return models.Template{}, ErrTemplateNotFound
	}
	if strings.TrimSpace(template.Name) == "" {
		return models.Template{}, ErrInvalidName
	}
	if err := template.Puzzle.Validate(); err != nil {
		return models.Template{}, fmt.Errorf("%w: %w", ErrInvalidPuzzle, err)
	}
	template.Name = strings.TrimSpace(template.Name)
	template.CreatedAt = existing.CreatedAt
	template.ModifiedAt = ts.clock.Now()
	template = template.Clone()
	ts.items.Put(template)
	ts.changed()
	return template, nil
}

// Duplicate copies a template under a new id and "<name> (Copy)".
func (ts *TemplateService) Duplicate(id string) (models.Template, error) {
	src, ok := ts.items.Get(id)
	if !ok {
		return models.Template{}, ErrTemplateNotFound
	}
	dup := models.NewTemplate(src.Name+" (Copy)", src.Puzzle, ts.clock.Now())
	dup.Checkpoints = models.CloneDefinitions(src.Checkpoints)
	ts.items.Put(dup)
	ts.changed()
	return dup.Clone(), nil
}

// Remove deletes the template. Records made with it keep their own copy of
// its checkpoints.
func (ts *TemplateService) Remove(id string) error {
	if !ts.items.Remove(id) {
		return ErrTemplateNotFound
	}
	ts.changed()
	return nil
}

func (ts *TemplateService) Get(id string) (models.Template, bool) {
	return ts.items.Get(id)
}

func (ts *TemplateService) ListAll() []models.Template {
	return ts.items.List()
}

// FindApplicable returns the templates bound to the puzzle followed by every
// generic template.
func (ts *TemplateService) FindApplicable(puzzle models.PuzzleIdentity) []models.Template {
	var bound, generic []models.Template
	for _, t := range ts.items.List() {
		switch {
		case t.IsGeneric():
			generic = append(generic, t)
		case t.AppliesTo(puzzle):
			bound = append(bound, t)
		}
	}
	return append(append(make([]models.Template, 0, len(bound)+len(generic)), bound...), generic...)
}
