package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type AssessmentStatus string

const AssessmentStatusOk AssessmentStatus = "ok"
const AssessmentStatusError AssessmentStatus = "error"
const AssessmentStatusTimeout AssessmentStatus = "timeout"

var AssessmentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_assessment_requests",
	Help: "The total number of message assessment requests",
}, []string{"status"})

var AssessmentVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_assessment_verdicts",
	Help: "The total number of verdicts returned by the remote assessment service",
}, []string{"verdict"})

var AssessmentCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_assessment_cache_requests",
	Help: "The total number of assessment cache lookups",
}, []string{"isHit"})

var AssessmentTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "trustguard_assessment_time_seconds",
	Help:    "The time spent waiting on the remote assessment service",
	Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
}, []string{"provider"})

// PoolWaitTime is observed with an exemplar naming how the wait ended ("result", "error" or "timeout").
var PoolWaitTime = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "trustguard_assessment_pool_wait_time_seconds",
	Help: "The time spent waiting for an assessment worker",
})

func StartAssessmentTimer(provider string) *prometheus.Timer {
	return prometheus.NewTimer(AssessmentTime.With(prometheus.Labels{"provider": provider}))
}

func StartPoolTimer() *prometheus.Timer {
	return prometheus.NewTimer(PoolWaitTime)
}

func RecordAssessment(status AssessmentStatus) {
	AssessmentRequests.With(prometheus.Labels{
		"status": string(status),
	}).Inc()
}

func RecordVerdict(verdict string) {
	AssessmentVerdicts.With(prometheus.Labels{
		"verdict": verdict,
	}).Inc()
}

func RecordAssessmentCacheRequest(isHit bool) {
	AssessmentCacheRequests.With(prometheus.Labels{
		"isHit": strconv.FormatBool(isHit),
	}).Inc()
}
