package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels: method is the HTTP method, action is the handler name.

var HttpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_http_requests",
	Help: "The total number of HTTP requests",
}, []string{"method", "action"})

var HttpResponses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_http_responses",
	Help: "The total number of HTTP responses, by status code",
}, []string{"method", "action", "status"})

var HttpRequestTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "trustguard_http_request_time_seconds",
	Help: "The time spent handling each HTTP request, including any remote assessment",
}, []string{"method", "action"})

func RecordHttpRequest(method string, action string) {
	HttpRequests.With(prometheus.Labels{"method": method, "action": action}).Inc()
}

func RecordHttpResponse(method string, action string, status int) {
	HttpResponses.With(prometheus.Labels{
		"method": method,
		"action": action,
		"status": strconv.Itoa(status),
	}).Inc()
}

func StartRequestTimer(method string, action string) *prometheus.Timer {
	return prometheus.NewTimer(HttpRequestTime.With(prometheus.Labels{"method": method, "action": action}))
}
