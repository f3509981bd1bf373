package providers

import "time"

// local mocks to avoid an import cycle with testutil

type testLogger struct{}

func (m *testLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Close()                                        {}

type mockMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration)     { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits()                                        { m.hits++ }
func (m *mockMetrics) IncCacheMisses()                                      { m.misses++ }
func (m *mockMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (m *mockMetrics) IncPersistenceErrors(_ string)                        {}
func (m *mockMetrics) SetCollectionSize(_ string, _ int)                    {}
func (m *mockMetrics) IncSplits()                                           {}
func (m *mockMetrics) IncRunsCompleted(_ string)                            {}
func (m *mockMetrics) ObserveRunDuration(_ time.Duration)                   {}
func (m *mockMetrics) SetSessionState(_ string)                             {}
