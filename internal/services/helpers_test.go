package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jumptimer/internal/models"
	"jumptimer/internal/persistence"
	"jumptimer/internal/structures"
	"jumptimer/internal/testutil"
)

type fixture struct {
	conf    *structures.Config
	files   *persistence.FileManager
	clock   *testutil.FakeClock
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.Persistence{Dir: t.TempDir(), SaveInterval: time.Minute, Compress: true},
	}
	logger := &testutil.MockLogger{}
	compressor, err := persistence.NewCompressor(conf)
	require.NoError(t, err)
	t.Cleanup(compressor.Close)
	return &fixture{
		conf:    conf,
		files:   persistence.NewFileManager(conf, compressor, logger),
		clock:   testutil.NewFakeClock(),
		logger:  logger,
		metrics: testutil.NewMockMetrics(),
	}
}

func (f *fixture) templates() *TemplateService {
	return NewTemplateService(f.files, f.clock, f.logger, f.metrics).(*TemplateService)
}

func (f *fixture) records() *RecordService {
	return NewRecordService(f.files, f.clock, f.logger, f.metrics).(*RecordService)
}

func (f *fixture) puzzles() *PuzzleService {
	return NewPuzzleService(f.files, f.clock, f.logger, f.metrics).(*PuzzleService)
}

func catalogPuzzle(id uint32, name string) models.PuzzleIdentity {
	return models.PuzzleIdentity{Ref: models.CatalogRef(id), Name: name, World: "Balmung"}
}

func customPuzzle(id, name string) models.PuzzleIdentity {
	return models.PuzzleIdentity{Ref: models.CustomRef(id), Name: name}
}

func timedCheckpoints(names ...string) []models.Checkpoint {
	cps := make([]models.Checkpoint, len(names))
	for i, n := range names {
		cum := time.Duration(i+1) * 10 * time.Second
		cps[i] = models.Checkpoint{
			Name:               n,
			Order:              i,
			CumulativeDuration: cum,
			SplitDuration:      10 * time.Second,
			IsCompleted:        true,
		}
	}
	return cps
}
