package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/trustguard/trustguard/assess"
)

const storageErrorMessage = "Your contact book could not be read or saved. Nothing was changed."

type apiError struct {
	Errcode string `json:"errcode"`
	Error   string `json:"error"`
	Hint    string `json:"hint,omitempty"`
}

func writeApiError(w http.ResponseWriter, httpCode int, body *apiError) {
	b, err := json.Marshal(body)
	if err != nil {
		// "should never happen"
		b = []byte(`{"errcode":"TG_UNKNOWN","error":"Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_, _ = w.Write(b)
}

type errorResponder struct {
	action string
	w      http.ResponseWriter
	r      *http.Request
}

func (e *errorResponder) text(httpCode int, errcode string, error string) {
	defer recordResponse(e.r, e.action, httpCode)
	writeApiError(e.w, httpCode, &apiError{Errcode: errcode, Error: error})
}

func (e *errorResponder) err(httpCode int, errcode string, err error) {
	log.Printf("%s error (%d/%s): %v", e.action, httpCode, errcode, err)
	e.text(httpCode, errcode, "Error")
}

// storage - the contact book couldn't be loaded or saved.
func (e *errorResponder) storage(err error) {
	log.Printf("%s storage error: %v", e.action, err)
	e.text(http.StatusInternalServerError, "TG_STORAGE", storageErrorMessage)
}

// assessment - the assessment service failed. Its error is shown as-is, alongside a hint.
func (e *errorResponder) assessment(err error) {
	log.Printf("%s assessment error: %v", e.action, err)
	hint := assess.ServiceHint
	var serviceErr *assess.ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Hint != "" {
		hint = serviceErr.Hint
	}

	defer recordResponse(e.r, e.action, http.StatusBadGateway)
	writeApiError(e.w, http.StatusBadGateway, &apiError{
		Errcode: "TG_ASSESSMENT_FAILED",
		Error:   err.Error(),
		Hint:    hint,
	})
}

// badBody - the request body was unreadable, too large, or not the expected JSON.
func (e *errorResponder) badBody(err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		e.text(http.StatusRequestEntityTooLarge, "TG_TOO_LARGE", "Request body is too large")
		return
	}
	e.text(http.StatusBadRequest, "TG_BAD_JSON", "Error parsing request body")
}

func (e *errorResponder) methodNotAllowed() {
	e.text(http.StatusMethodNotAllowed, "TG_UNRECOGNIZED", "Method not allowed")
}

func newErrorResponder(action string, w http.ResponseWriter, r *http.Request) *errorResponder {
	return &errorResponder{
		action: action,
		w:      w,
		r:      r,
	}
}
