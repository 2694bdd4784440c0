// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	SuggestionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_suggestion_score",
			Help:    "Scores of employees returned as task suggestions",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	SuggestionsEmpty = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_suggestions_empty_total",
			Help: "Tasks for which no active employee could be suggested",
		},
	)

	WorkflowPlansGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_plans_generated_total",
			Help: "Workflow plans generated per request type",
		},
		[]string{"request_type"},
	)

	RosterCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_cache_lookups_total",
			Help: "Active employee roster cache lookups by result",
		},
		[]string{"result"},
	)
)

// JobTracker records the lifecycle of a single job.
type JobTracker struct {
	taskType string
	start    time.Time
}

// TrackJob marks a job as active until Completed or Failed is called.
func TrackJob(taskType string) *JobTracker {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTracker{taskType: taskType, start: time.Now()}
}

func (t *JobTracker) Completed() {
	t.finish()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

func (t *JobTracker) Failed(errorCode string) {
	t.finish()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTracker) finish() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}
