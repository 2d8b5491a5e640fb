package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/trustguard/trustguard/metrics"
	"github.com/trustguard/trustguard/report"
)

func httpGenerateReportApi(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpGenerateReportApi")
	t := metrics.StartRequestTimer(r.Method, "httpGenerateReportApi")
	defer t.ObserveDuration()

	errs := newErrorResponder("httpGenerateReportApi", w, r)

	if r.Method != http.MethodPost {
		errs.methodNotAllowed()
		return
	}

	body := struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Summary string `json:"summary"`
	}{}
	if err := parseRequestBody(&body, w, r); err != nil {
		errs.badBody(err)
		return
	}

	rep, err := report.Generate(&report.Input{
		Name:    body.Name,
		Contact: body.Contact,
		Summary: body.Summary,
	}, api.reportAuthorities)
	if err != nil {
		var fieldErr *report.FieldError
		if errors.As(err, &fieldErr) {
			errs.text(http.StatusBadRequest, "TG_MISSING_FIELDS", missingFieldsMessage)
		} else {
			errs.err(http.StatusInternalServerError, "TG_UNKNOWN", err)
		}
		return
	}

	defer recordResponse(r, "httpGenerateReportApi", http.StatusOK)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename))
	w.Header().Set("X-Report-Id", rep.Id)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rep.Text))
}
