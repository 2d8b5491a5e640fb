package api

import (
	"errors"
	"net/http"

	"github.com/trustguard/trustguard/assess"
	"github.com/trustguard/trustguard/metrics"
	"github.com/trustguard/trustguard/report"
)

type checkMessageRequest struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
	// Comma-separated, as typed by the user.
	Allowlist string `json:"allowlist"`
}

type checkMessageResponse struct {
	Verdict           string   `json:"verdict"`
	Score             int      `json:"score"`
	Confidence        float64  `json:"confidence"`
	Reasons           []string `json:"reasons"`
	Advice            []string `json:"advice"`
	SenderAllowlisted bool     `json:"sender_allowlisted"`
	NextSteps         []string `json:"next_steps"`
}

func httpCheckMessageApi(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpCheckMessageApi")
	t := metrics.StartRequestTimer(r.Method, "httpCheckMessageApi")
	defer t.ObserveDuration()

	errs := newErrorResponder("httpCheckMessageApi", w, r)

	if r.Method != http.MethodPost {
		errs.methodNotAllowed()
		return
	}

	body := &checkMessageRequest{}
	if err := parseRequestBody(body, w, r); err != nil {
		errs.badBody(err)
		return
	}

	// Note: the message is never logged
	allowlist := append(append([]string{}, api.defaultAllowlist...), assess.ParseAllowlist(body.Allowlist)...)
	req := &assess.Request{
		Message:   body.Message,
		Sender:    body.Sender,
		Allowlist: assess.NormalizeAllowlist(allowlist),
	}
	if api.assessor == nil {
		errs.assessment(&assess.ServiceError{
			Err:  errors.New("no assessment service is configured"),
			Hint: assess.ServiceHint,
		})
		return
	}

	res, err := api.assessor.Assess(r.Context(), req)
	if err != nil {
		if errors.Is(err, assess.ErrEmptyMessage) {
			errs.text(http.StatusBadRequest, "TG_MISSING_FIELDS", "Please paste a message to check.")
			return
		}
		errs.assessment(err)
		return
	}

	err = respondJson("httpCheckMessageApi", r, w, &checkMessageResponse{
		Verdict:           res.Verdict,
		Score:             res.Score,
		Confidence:        res.EffectiveConfidence(),
		Reasons:           nonNil(res.Reasons),
		Advice:            nonNil(res.Advice),
		SenderAllowlisted: assess.SenderAllowlisted(req.Sender, req.Allowlist),
		NextSteps:         report.NextSteps,
	})
	if err != nil {
		errs.err(http.StatusInternalServerError, "TG_UNKNOWN", err)
		return
	}
}

func nonNil(vals []string) []string {
	if vals == nil {
		return make([]string, 0)
	}
	return vals
}
