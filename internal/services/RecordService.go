package services

import (
	"strings"

	"github.com/google/uuid"

	"jumptimer/internal/models"
	"jumptimer/internal/persistence"
	"jumptimer/internal/persistence/interfaces"
	"jumptimer/internal/providers"
	"jumptimer/internal/speedrun"
)

const RecordsCollection = "records"

type RecordServiceInterface interface {
	interfaces.StoreInterface
	Append(record models.Record) error
	Remove(id string) error
	Get(id string) (models.Record, bool)
	ListAll() []models.Record
	ListFor(puzzle models.PuzzleIdentity) []models.Record
	PersonalBest(puzzle models.PuzzleIdentity) (models.Record, bool)
	PersonalBestExcept(puzzle models.PuzzleIdentity, id string) (models.Record, bool)
	CreateTemplateFrom(record models.Record, name string) models.Template
	Revision() uint64
}

// RecordService keeps finished runs in insertion order. Records are never
// edited after they are appended.
type RecordService struct {
	*collectionStore[models.Record]
	clock speedrun.Clock
}

func NewRecordService(files *persistence.FileManager, clock speedrun.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) RecordServiceInterface {
	return &RecordService{
		collectionStore: newCollectionStore(RecordsCollection, files, logger, metrics, func(r models.Record) error {
			return r.Puzzle.Validate()
		}),
		clock: clock,
	}
}

func (rs *RecordService) Append(record models.Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if _, ok := rs.items.Get(record.ID); ok {
		return ErrDuplicateRecord
	}
	rs.items.Put(record)
	rs.changed()
	return nil
}

func (rs *RecordService) Remove(id string) error {
	if !rs.items.Remove(id) {
		return ErrRecordNotFound
	}
	rs.changed()
	return nil
}

func (rs *RecordService) Get(id string) (models.Record, bool) {
	return rs.items.Get(id)
}

func (rs *RecordService) ListAll() []models.Record {
	return rs.items.List()
}

func (rs *RecordService) ListFor(puzzle models.PuzzleIdentity) []models.Record {
	out := make([]models.Record, 0)
	for _, r := range rs.items.List() {
		if r.Puzzle.SamePuzzle(puzzle) {
			out = append(out, r)
		}
	}
	return out
}

// PersonalBest is the fastest record for the puzzle; the earliest wins a tie.
func (rs *RecordService) PersonalBest(puzzle models.PuzzleIdentity) (models.Record, bool) {
	return rs.PersonalBestExcept(puzzle, "")
}

// PersonalBestExcept is PersonalBest ignoring the record with the given id.
func (rs *RecordService) PersonalBestExcept(puzzle models.PuzzleIdentity, id string) (models.Record, bool) {
	var best models.Record
	found := false
	for _, r := range rs.ListFor(puzzle) {
		if id != "" && r.ID == id {
			continue
		}
		if !found || r.TotalDuration < best.TotalDuration {
			best = r
			found = true
		}
	}
	return best, found
}

// CreateTemplateFrom builds an unsaved template from the record's checkpoint
// snapshot with every timing result stripped.
func (rs *RecordService) CreateTemplateFrom(record models.Record, name string) models.Template {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(record.Puzzle.Name)
		if name == "" {
			name = "Untitled"
		}
		name += " Template"
	}
	t := models.NewTemplate(name, record.Puzzle, rs.clock.Now())
	t.Checkpoints = models.CloneDefinitions(record.Checkpoints)
	return t
}
