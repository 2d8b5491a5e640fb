package dbmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var StoreRequestTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "trustguard_contact_store_request_time_seconds",
	Help: "The time spent reading and writing the contact store",
}, []string{"backend", "op"})

func StartStoreTimer(backend string, op string) *prometheus.Timer {
	return prometheus.NewTimer(StoreRequestTime.With(prometheus.Labels{
		"backend": backend,
		"op":      op,
	}))
}
