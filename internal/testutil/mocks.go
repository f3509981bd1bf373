package testutil

import (
	"errors"
	"sync"
	"time"

	"jumptimer/internal/models"
	"jumptimer/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	Splits            int
	Runs              map[string]int
	RunDurations      []time.Duration
	States            []string
	PersistenceCalls  map[string]int
	PersistenceErrors map[string]int
	Sizes             map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Runs:              make(map[string]int),
		PersistenceCalls:  make(map[string]int),
		PersistenceErrors: make(map[string]int),
		Sizes:             make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObservePersistenceDuration(collection string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls[collection]++
}

func (m *MockMetrics) IncPersistenceErrors(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceErrors[collection]++
}

func (m *MockMetrics) SetCollectionSize(collection string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sizes[collection] = count
}

func (m *MockMetrics) IncSplits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Splits++
}

func (m *MockMetrics) IncRunsCompleted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs[kind]++
}

func (m *MockMetrics) ObserveRunDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunDurations = append(m.RunDurations, d)
}

func (m *MockMetrics) SetSessionState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States = append(m.States, state)
}

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// MockRecordSink collects appended records; set Err to make Append fail.
type MockRecordSink struct {
	mu      sync.Mutex
	Records []models.Record
	Err     error
}

var ErrSinkUnavailable = errors.New("sink unavailable")

func (s *MockRecordSink) Append(record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Records = append(s.Records, record)
	return nil
}
