package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trustguard/trustguard/report"
	"github.com/trustguard/trustguard/test"
)

func TestTipsWrongMethod(t *testing.T) {
	t.Parallel()

	api, _ := makeApi(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost /*this should be GET*/, "/api/v1/tips", nil)
	httpTipsApi(api, w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	test.AssertApiError(t, w, "TG_UNRECOGNIZED", "Method not allowed")
}

func TestTips(t *testing.T) {
	t.Parallel()

	api, _ := makeApi(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tips", nil)
	httpTipsApi(api, w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	test.AssertJsonBody(t, w, map[string][]string{
		"safeguards": report.Safeguards,
		"next_steps": report.NextSteps,
	})
}
