package api

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/trustguard/trustguard/assess"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/contacts"
	"github.com/trustguard/trustguard/metrics"
)

type Config struct {
	// Optional. If set, every /api/v1 route requires it as a bearer token.
	ApiKey string
	// Added to the allowlist of every message check.
	DefaultAllowlist []string
	// Listed at the bottom of generated reports.
	ReportAuthorities []config.ReportAuthority
}

// MessageAssessor - see assess.Assessor.
type MessageAssessor interface {
	Assess(ctx context.Context, req *assess.Request) (*assess.Assessment, error)
}

type Api struct {
	book              *contacts.Book
	assessor          MessageAssessor
	apiKey            string
	defaultAllowlist  []string
	reportAuthorities []config.ReportAuthority
}

// NewApi - creates the HTTP adapter. `assessor` may be nil when no assessment service is configured, in which
// case message checks fail with a hint on how to configure one.
func NewApi(config *Config, book *contacts.Book, assessor MessageAssessor) (*Api, error) {
	return &Api{
		book:              book,
		assessor:          assessor,
		apiKey:            config.ApiKey,
		defaultAllowlist:  config.DefaultAllowlist,
		reportAuthorities: config.ReportAuthorities,
	}, nil
}

func (a *Api) httpRequestHandler(upstream func(api *Api, w http.ResponseWriter, r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream(a, w, r)
	})
}

func (a *Api) httpAuthenticatedRequestHandler(upstream func(api *Api, w http.ResponseWriter, r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.apiKey != "" {
			given := []byte(r.Header.Get("Authorization"))
			expected := []byte("Bearer " + a.apiKey)
			if subtle.ConstantTimeCompare(given, expected) != 1 {
				errs := newErrorResponder("httpAuthenticatedRequestHandler", w, r)
				errs.text(http.StatusUnauthorized, "TG_UNAUTHORIZED", "Not allowed")
				return
			}
		}

		upstream(a, w, r)
	})
}

func (a *Api) BindTo(mux *http.ServeMux) error {
	mux.Handle("/", a.httpRequestHandler(httpCatchAll))
	mux.Handle("/health", a.httpRequestHandler(httpHealth))
	mux.Handle("/ready", a.httpRequestHandler(httpReady))

	if a.apiKey == "" {
		log.Println("TG_API_KEY is not set: the API is open to anyone who can reach it")
	}
	mux.Handle("/api/v1/check", a.httpAuthenticatedRequestHandler(httpCheckMessageApi))
	mux.Handle("/api/v1/contacts", a.httpAuthenticatedRequestHandler(httpContactsApi))
	mux.Handle("/api/v1/contacts/verify", a.httpAuthenticatedRequestHandler(httpVerifyContactApi))
	mux.Handle("/api/v1/report", a.httpAuthenticatedRequestHandler(httpGenerateReportApi))
	mux.Handle("/api/v1/tips", a.httpAuthenticatedRequestHandler(httpTipsApi))

	return nil
}

func recordResponse(r *http.Request, action string, code int) {
	metrics.RecordHttpResponse(r.Method, action, code)
}
