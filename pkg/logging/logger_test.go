package logging

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput collects entries in memory for assertions.
type captureOutput struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (c *captureOutput) Write(e LogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureOutput) Sync() error  { return nil }
func (c *captureOutput) Close() error { return nil }

func TestLoggerSeverityFiltering(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(Config{Severity: WARN, Outputs: []Output{out}})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Len(t, out.entries, 2)
	assert.Equal(t, WARN, out.entries[0].Severity)
	assert.Equal(t, ERROR, out.entries[1].Severity)
}

func TestLoggerContextFields(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})

	ctx := WithRunID(context.Background(), "traj_20250101_001")
	ctx = WithModelID(ctx, "claude-sonnet")
	logger.Info(ctx, "processing %d steps", 5)

	require.Len(t, out.entries, 1)
	entry := out.entries[0]
	assert.Equal(t, "traj_20250101_001", entry.RunID)
	assert.Equal(t, "claude-sonnet", entry.ModelID)
	assert.Equal(t, "processing 5 steps", entry.Message)
	assert.True(t, strings.HasSuffix(entry.File, ".go"))
}

func TestLoggerDefaultFields(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(Config{
		Severity:      INFO,
		Outputs:       []Output{out},
		DefaultFields: map[string]interface{}{"component": "optimizer"},
	})

	logger.Info(context.Background(), "hello")

	require.Len(t, out.entries, 1)
	assert.Equal(t, "optimizer", out.entries[0].Fields["component"])
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, DEBUG, ParseSeverity("DEBUG"))
	assert.Equal(t, DEBUG, ParseSeverity("debug"))
	assert.Equal(t, ERROR, ParseSeverity("error"))
	assert.Equal(t, INFO, ParseSeverity("not-a-level"))
}

func TestGetLoggerReturnsSingleton(t *testing.T) {
	custom := NewLogger(Config{Severity: DEBUG, Outputs: []Output{&captureOutput{}}})
	SetLogger(custom)
	defer SetLogger(NewLogger(Config{Severity: INFO, Outputs: []Output{NewConsoleOutput(false)}}))

	assert.Same(t, custom, GetLogger())
}
