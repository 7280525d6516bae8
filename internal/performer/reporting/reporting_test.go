package reporting

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

const testDSN = "https://public@sentry.example.com/1"

func TestNew_WithoutDSN(t *testing.T) {
	reporter, err := New(Options{}, logging.NewNoOpLogger())
	require.NoError(t, err)
	assert.IsType(t, NoOpReporter{}, reporter)

	reporter.ReportFailure("oracle", errors.New("boom"), nil)
	assert.True(t, reporter.Flush(time.Millisecond))
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := New(Options{DSN: "not a dsn"}, logging.NewNoOpLogger())
	assert.Error(t, err)
}

func TestSentryReporter_ReportFailure(t *testing.T) {
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	reporter, err := New(Options{
		DSN:         testDSN,
		Environment: "test",
		Release:     "performer@0.1.0",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			// never leave the process
			return nil
		},
	}, logging.NewNoOpLogger())
	require.NoError(t, err)
	require.IsType(t, &SentryReporter{}, reporter)

	reporter.ReportFailure("submission", errors.New("RPC error -32000: task rejected"), map[string]string{
		"taskDefinitionId": "0",
	})
	reporter.ReportFailure("signing", nil, nil)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1, "nil errors are not reported")

	event := events[0]
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "test", event.Environment)
	assert.Equal(t, "performer@0.1.0", event.Release)
	assert.Equal(t, "submission", event.Tags["stage"])
	assert.Equal(t, "0", event.Tags["taskDefinitionId"])
	require.NotEmpty(t, event.Exception)
	assert.Equal(t, "RPC error -32000: task rejected", event.Exception[0].Value)
}
