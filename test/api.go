package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ApiError - the error body every API failure responds with.
type ApiError struct {
	Errcode string `json:"errcode"`
	Error   string `json:"error"`
	Hint    string `json:"hint"`
}

func MakeJsonBody(t *testing.T, body any) io.Reader {
	b, err := json.Marshal(body)
	assert.NoError(t, err)
	assert.NotNil(t, b)
	return bytes.NewReader(b)
}

func ReadApiError(t *testing.T, w *httptest.ResponseRecorder) *ApiError {
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	apiErr := &ApiError{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), apiErr))
	return apiErr
}

func AssertApiError(t *testing.T, w *httptest.ResponseRecorder, errcode string, error string) {
	apiErr := ReadApiError(t, w)
	assert.Equal(t, errcode, apiErr.Errcode)
	assert.Equal(t, error, apiErr.Error)
}

func AssertJsonBody(t *testing.T, w *httptest.ResponseRecorder, expected any) {
	expectedJson, err := json.Marshal(expected)
	assert.NoError(t, err)
	assert.JSONEq(t, string(expectedJson), w.Body.String())
}

// AssertNoSecrets - fails if the response leaks a stored hash or any of the given plaintexts.
func AssertNoSecrets(t *testing.T, w *httptest.ResponseRecorder, plaintexts ...string) {
	body := w.Body.String()
	assert.NotContains(t, body, "safe_hash")
	assert.NotContains(t, body, "$argon2id$")
	for _, plaintext := range plaintexts {
		assert.NotContains(t, body, plaintext)
	}
}
