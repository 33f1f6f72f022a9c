package factory

import (
	"time"

	"github.com/lucasmnd/duodle/internal/dependencies/mocks"
	"github.com/lucasmnd/duodle/internal/history/memory"
	"github.com/lucasmnd/duodle/internal/services/game"
	"github.com/lucasmnd/duodle/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// MemoryRecorder is the in-memory match log backing App.Recorder
	MemoryRecorder *memory.Recorder
}

// TestJWTSecret signs tokens in tests
var TestJWTSecret = []byte("test-secret")

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	recorder := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(recorder, mockClock, mockRandom, TestJWTSecret, game.Config{}, testutil.NopLogger())

	return &TestApp{
		App:            app,
		MockClock:      mockClock,
		MockRandom:     mockRandom,
		MemoryRecorder: recorder,
	}
}
