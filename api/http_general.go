package api

import (
	"log"
	"net/http"

	"github.com/trustguard/trustguard/metrics"
)

func httpHealth(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpHealth")
	t := metrics.StartRequestTimer(r.Method, "httpHealth")
	defer t.ObserveDuration()

	defer recordResponse(r, "httpHealth", http.StatusOK)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func httpReady(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpReady")
	t := metrics.StartRequestTimer(r.Method, "httpReady")
	defer t.ObserveDuration()

	// Ready once the contact book can be read: a corrupt book should be noticed before users are sent here.
	if _, err := api.book.List(r.Context()); err != nil {
		errs := newErrorResponder("httpReady", w, r)
		errs.storage(err)
		return
	}

	defer recordResponse(r, "httpReady", http.StatusOK)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func httpCatchAll(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpCatchAll")
	t := metrics.StartRequestTimer(r.Method, "httpCatchAll")
	defer t.ObserveDuration()

	// To appease blackbox exporters
	if r.URL.Path == "/" {
		_, _ = w.Write([]byte("ok"))
		defer recordResponse(r, "httpCatchAll", http.StatusOK)
		return
	}

	log.Printf("Unhandled request: %s %s", r.Method, r.URL.Path)

	errs := newErrorResponder("httpCatchAll", w, r)
	errs.text(http.StatusNotFound, "TG_UNRECOGNIZED", "not implemented")
}
