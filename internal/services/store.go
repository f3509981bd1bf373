package services

import (
	"sync"

	"jumptimer/internal/models"
	"jumptimer/internal/persistence"
	"jumptimer/internal/persistence/interfaces"
	"jumptimer/internal/providers"
)

// collectionStore binds an in-memory collection to its store file and
// tracks whether it changed since the last load or save.
type collectionStore[T models.Entity[T]] struct {
	name    string
	items   *models.Collection[T]
	files   *persistence.FileManager
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	check   func(T) error

	mu    sync.Mutex
	saved uint64
}

func newCollectionStore[T models.Entity[T]](name string, files *persistence.FileManager, logger providers.Logger, metrics providers.MetricsProviderInterface, check func(T) error) *collectionStore[T] {
	return &collectionStore[T]{
		name:    name,
		items:   models.NewCollection[T](),
		files:   files,
		logger:  logger,
		metrics: metrics,
		check:   check,
	}
}

func (s *collectionStore[T]) Name() string { return s.name }

// Load replaces the collection with the file content. On failure the current
// content is kept. Entities failing the data check are logged and kept as-is.
func (s *collectionStore[T]) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loaded []T
	if err := s.files.Load(s.name, &loaded); err != nil {
		return err
	}
	if s.check != nil {
		for _, item := range loaded {
			if err := s.check(item); err != nil {
				s.logger.Warnf(providers.TypeStorage, "Store %s: entity %s looks inconsistent: %s", s.name, item.GetID(), err)
			}
		}
	}
	s.items.Replace(loaded)
	s.saved = s.items.Revision()
	s.metrics.SetCollectionSize(s.name, s.items.Len())
	s.logger.Infof(providers.TypeStorage, "Loaded %d entities into %s", s.items.Len(), s.name)
	return nil
}

func (s *collectionStore[T]) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev := s.items.Revision()
	if err := s.files.Save(s.name, s.items.List()); err != nil {
		return err
	}
	s.saved = rev
	return nil
}

func (s *collectionStore[T]) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Revision() != s.saved
}

// Revision changes whenever the collection content changes.
func (s *collectionStore[T]) Revision() uint64 {
	return s.items.Revision()
}

func (s *collectionStore[T]) changed() {
	s.metrics.SetCollectionSize(s.name, s.items.Len())
}

// NewStoreList orders the collections for the persistence scheduler.
func NewStoreList(templates TemplateServiceInterface, records RecordServiceInterface, puzzles PuzzleServiceInterface) []interfaces.StoreInterface {
	return []interfaces.StoreInterface{templates, records, puzzles}
}
