package persistence

import (
	"errors"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"jumptimer/internal/persistence/interfaces"
	"jumptimer/internal/providers"
	"jumptimer/internal/structures"
)

// Scheduler restores every store at startup, flushes dirty stores on the
// configured interval and persists everything on shutdown.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	stores  []interfaces.StoreInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		for _, store := range s.stores {
			if !store.Dirty() {
				continue
			}
			if err := s.save(store); err != nil {
				s.logger.Errorf(providers.TypeStorage, "Error while persisting %s: %s", store.Name(), err)
				continue
			}
			s.logger.Debugf(providers.TypeStorage, "Persisted %s", store.Name())
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads every store. A store that fails to load is logged and left
// empty; the remaining stores still load.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	var errs []error
	for _, store := range s.stores {
		if err := store.Load(); err != nil {
			s.metrics.IncPersistenceErrors(store.Name())
			s.logger.Errorf(providers.TypeStorage, "Restore of %s failed: %s", store.Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStorage, "Persisting stores...")
	var errs []error
	for _, store := range s.stores {
		if err := s.save(store); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Error while persisting %s: %s", store.Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) save(store interfaces.StoreInterface) error {
	start := time.Now()
	err := store.Save()
	s.metrics.ObservePersistenceDuration(store.Name(), time.Since(start))
	if err != nil {
		s.metrics.IncPersistenceErrors(store.Name())
	}
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, stores []interfaces.StoreInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		metrics: metrics,
		stores:  stores,
	}
}
