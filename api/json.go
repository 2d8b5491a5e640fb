package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Messages and summaries are pasted by hand, so a megabyte is plenty.
const maxBodyBytes = 1 << 20

// parseRequestBody - decodes exactly one JSON value from the request body into val.
func parseRequestBody(val any, w http.ResponseWriter, r *http.Request) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(val); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after the JSON body")
	}
	return nil
}

func respondJson(action string, r *http.Request, w http.ResponseWriter, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	defer recordResponse(r, action, http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
	return nil
}
