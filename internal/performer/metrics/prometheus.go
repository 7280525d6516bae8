package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "triggerx"
	subsystem = "performer"
)

var (
	startTime = time.Now()

	// UptimeSeconds tracks the service uptime in seconds
	UptimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "uptime_seconds",
		Help:      "The uptime of the performer service in seconds",
	})

	// Total execution requests on the performer API server
	TasksReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tasks_received_total",
		Help:      "Total tasks received",
	})

	// Tasks finished, status: success, failure
	TasksCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tasks_completed_total",
		Help:      "Total tasks completed",
	}, []string{"status"})

	// Failures by pipeline stage: oracle, encoding, signing, submission
	TaskFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "task_failures_total",
		Help:      "Task failures by pipeline stage",
	}, []string{"stage"})

	TaskDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "task_duration_seconds",
		Help:      "Time taken for a full task pipeline",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	StageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Time taken by each pipeline stage",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	TasksByDefinitionIDTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tasks_by_definition_id_total",
		Help:      "Tasks executed by task definition id",
	}, []string{"id"})

	// Aggregator responses, kind: success, protocol_error, malformed, transport
	AggregatorResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "aggregator_responses_total",
		Help:      "Aggregator sendTask responses by kind",
	}, []string{"kind"})

	TasksPerDay = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tasks_per_day",
		Help:      "Tasks completed since the last daily reset",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_requests_total",
		Help:      "API requests by route and status code",
	}, []string{"method", "path", "status"})

	// System metrics
	MemoryUsageBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "memory_usage_bytes",
		Help:      "Memory consumption",
	})

	CPUUsagePercent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cpu_usage_percent",
		Help:      "CPU utilization",
	})

	GoroutinesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "goroutines_active",
		Help:      "Active Go routines",
	})

	GCDurationSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "gc_duration_seconds",
		Help:      "Total garbage collection pause time",
	})
)

// Recorder is what the task pipeline reports to.
type Recorder interface {
	TaskReceived(taskDefinitionID int32)
	StageCompleted(stage string, duration time.Duration)
	TaskSucceeded(duration time.Duration)
	TaskFailed(stage string, duration time.Duration)
	AggregatorResponse(kind string)
}

// PrometheusRecorder records into the package-level collectors.
type PrometheusRecorder struct{}

var _ Recorder = PrometheusRecorder{}

func (PrometheusRecorder) TaskReceived(taskDefinitionID int32) {
	TasksReceivedTotal.Inc()
	TasksByDefinitionIDTotal.WithLabelValues(strconv.Itoa(int(taskDefinitionID))).Inc()
}

func (PrometheusRecorder) StageCompleted(stage string, duration time.Duration) {
	StageDurationSeconds.WithLabelValues(stage).Observe(duration.Seconds())
}

func (PrometheusRecorder) TaskSucceeded(duration time.Duration) {
	TasksCompletedTotal.WithLabelValues("success").Inc()
	TaskDurationSeconds.WithLabelValues("success").Observe(duration.Seconds())
	TasksPerDay.Inc()
}

func (PrometheusRecorder) TaskFailed(stage string, duration time.Duration) {
	TasksCompletedTotal.WithLabelValues("failure").Inc()
	TaskFailuresTotal.WithLabelValues(stage).Inc()
	TaskDurationSeconds.WithLabelValues("failure").Observe(duration.Seconds())
}

func (PrometheusRecorder) AggregatorResponse(kind string) {
	AggregatorResponsesTotal.WithLabelValues(kind).Inc()
}

// NoOpRecorder discards everything.
type NoOpRecorder struct{}

var _ Recorder = NoOpRecorder{}

func (NoOpRecorder) TaskReceived(int32)                   {}
func (NoOpRecorder) StageCompleted(string, time.Duration) {}
func (NoOpRecorder) TaskSucceeded(time.Duration)          {}
func (NoOpRecorder) TaskFailed(string, time.Duration)     {}
func (NoOpRecorder) AggregatorResponse(string)            {}
