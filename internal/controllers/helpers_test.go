package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"jumptimer/internal/persistence"
	"jumptimer/internal/services"
	"jumptimer/internal/speedrun"
	"jumptimer/internal/structures"
	"jumptimer/internal/testutil"
)

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }

type env struct {
	clock     *testutil.FakeClock
	logger    *testutil.MockLogger
	cache     *mockCache
	driver    *speedrun.Driver
	templates services.TemplateServiceInterface
	records   services.RecordServiceInterface
	puzzles   services.PuzzleServiceInterface

	timer     *TimerController
	templateC *TemplateController
	recordC   *RecordController
	puzzleC   *PuzzleController
	health    *HealthController
}

func newEnv(t *testing.T, autoSave bool) *env {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.Persistence{Dir: t.TempDir()},
		Timer:       structures.TimerConfig{CountdownTicks: 3, TickLength: time.Second, AutoSave: autoSave},
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	clock := testutil.NewFakeClock()
	files := persistence.NewFileManager(conf, &testutil.MockCompressor{}, logger)

	e := &env{
		clock:     clock,
		logger:    logger,
		cache:     newMockCache(),
		templates: services.NewTemplateService(files, clock, logger, metrics),
		records:   services.NewRecordService(files, clock, logger, metrics),
		puzzles:   services.NewPuzzleService(files, clock, logger, metrics),
	}
	machine := speedrun.NewMachineFromConfig(conf, clock, e.records, logger)
	e.driver = speedrun.NewDriver(machine, clock, conf, logger)

	e.timer = NewTimerController(logger, e.driver, e.templates, e.records, e.puzzles)
	e.templateC = NewTemplateController(logger, e.templates, e.records, e.cache, clock)
	e.recordC = NewRecordController(logger, e.records, e.cache)
	e.puzzleC = NewPuzzleController(logger, e.puzzles, e.cache)
	e.health = NewHealthController(e.driver, e.templates, e.records, e.puzzles)
	return e
}

func call(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(raw))
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}
