package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type VerifyOutcome string

const VerifyOutcomeMatch VerifyOutcome = "match"
const VerifyOutcomeNoMatch VerifyOutcome = "no_match"
const VerifyOutcomeError VerifyOutcome = "error"

var ContactSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_contact_saves",
	Help: "The total number of contact add/replace operations",
}, []string{"status"})

var SafeWordVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trustguard_safe_word_verifications",
	Help: "The total number of safe word verification attempts",
}, []string{"outcome"})

var ContactCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "trustguard_contacts",
	Help: "The number of contacts in the contact book as of the last load",
})

func RecordContactSave(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	ContactSaves.With(prometheus.Labels{
		"status": status,
	}).Inc()
}

func RecordVerification(outcome VerifyOutcome) {
	SafeWordVerifications.With(prometheus.Labels{
		"outcome": string(outcome),
	}).Inc()
}

func SetContactCount(n int) {
	ContactCount.Set(float64(n))
}
