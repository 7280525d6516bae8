package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

// Reporter forwards task pipeline failures to an error tracker.
type Reporter interface {
	ReportFailure(stage string, err error, tags map[string]string)
	Flush(timeout time.Duration) bool
}

type Options struct {
	DSN         string
	Environment string
	Release     string
	// Optional hook, called for every event before it is sent.
	BeforeSend func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event
}

// New returns a Sentry-backed reporter when a DSN is configured and a no-op
// reporter otherwise.
func New(opts Options, logger logging.Logger) (Reporter, error) {
	if opts.DSN == "" {
		logger.Debug("Sentry DSN not set, failure reporting disabled")
		return NoOpReporter{}, nil
	}
	return NewSentryReporter(opts, logger)
}

type SentryReporter struct {
	hub    *sentry.Hub
	logger logging.Logger
}

var _ Reporter = (*SentryReporter)(nil)

func NewSentryReporter(opts Options, logger logging.Logger) (*SentryReporter, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend:       opts.BeforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}

	return &SentryReporter{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger,
	}, nil
}

func (r *SentryReporter) ReportFailure(stage string, err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("stage", stage)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if eventID := r.hub.CaptureException(err); eventID != nil {
			r.logger.Debug("Reported task failure", "stage", stage, "eventId", string(*eventID))
		}
	})
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

type NoOpReporter struct{}

var _ Reporter = NoOpReporter{}

func (NoOpReporter) ReportFailure(string, error, map[string]string) {}

func (NoOpReporter) Flush(time.Duration) bool { return true }
