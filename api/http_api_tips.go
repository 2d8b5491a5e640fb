package api

import (
	"net/http"

	"github.com/trustguard/trustguard/metrics"
	"github.com/trustguard/trustguard/report"
)

func httpTipsApi(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpTipsApi")
	t := metrics.StartRequestTimer(r.Method, "httpTipsApi")
	defer t.ObserveDuration()

	errs := newErrorResponder("httpTipsApi", w, r)

	if r.Method != http.MethodGet {
		errs.methodNotAllowed()
		return
	}

	err := respondJson("httpTipsApi", r, w, map[string][]string{
		"safeguards": report.Safeguards,
		"next_steps": report.NextSteps,
	})
	if err != nil {
		errs.err(http.StatusInternalServerError, "TG_UNKNOWN", err)
		return
	}
}
