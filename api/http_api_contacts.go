package api

import (
	"fmt"
	"net/http"

	"github.com/trustguard/trustguard/contacts"
	"github.com/trustguard/trustguard/metrics"
)

const missingFieldsMessage = "Please fill in all fields."
const verifyMatchMessage = "Match. You can trust this conversation starter."
const verifyNoMatchMessage = "No match. Hang up and call back using your own contact list."

// contactView - a contact as shown to users. The safe word hash never leaves the process.
type contactView struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

func newContactView(c *contacts.Contact) *contactView {
	return &contactView{
		Name:    c.Name,
		Channel: c.Channel,
	}
}

func httpContactsApi(api *Api, w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		listContactsHandler(api, w, r)
	} else if r.Method == http.MethodPost {
		saveContactHandler(api, w, r)
	} else {
		errs := newErrorResponder("httpContactsApi", w, r)
		errs.methodNotAllowed()
	}
}

func listContactsHandler(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "listContactsHandler")
	t := metrics.StartRequestTimer(r.Method, "listContactsHandler")
	defer t.ObserveDuration()

	errs := newErrorResponder("listContactsHandler", w, r)

	list, err := api.book.List(r.Context())
	if err != nil {
		errs.storage(err)
		return
	}

	views := make([]*contactView, 0, len(list))
	for _, c := range list {
		views = append(views, newContactView(c))
	}
	err = respondJson("listContactsHandler", r, w, views)
	if err != nil {
		errs.err(http.StatusInternalServerError, "TG_UNKNOWN", err)
		return
	}
}

func saveContactHandler(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "saveContactHandler")
	t := metrics.StartRequestTimer(r.Method, "saveContactHandler")
	defer t.ObserveDuration()

	errs := newErrorResponder("saveContactHandler", w, r)

	body := struct {
		Name     string `json:"name"`
		Channel  string `json:"channel"`
		SafeWord string `json:"safe_word"`
	}{}
	if err := parseRequestBody(&body, w, r); err != nil {
		errs.badBody(err)
		return
	}

	contact, err := api.book.Save(r.Context(), body.Name, body.Channel, body.SafeWord)
	if err != nil {
		// Note: a corrupt book is a storage error even though it wraps a validation error
		if !contacts.IsStorageError(err) && contacts.IsValidationError(err) {
			errs.text(http.StatusBadRequest, "TG_MISSING_FIELDS", missingFieldsMessage)
		} else {
			errs.storage(err)
		}
		return
	}

	err = respondJson("saveContactHandler", r, w, struct {
		Name    string `json:"name"`
		Channel string `json:"channel"`
		Message string `json:"message"`
	}{
		Name:    contact.Name,
		Channel: contact.Channel,
		Message: fmt.Sprintf("Saved contact: %s", contact.Name),
	})
	if err != nil {
		errs.err(http.StatusInternalServerError, "TG_UNKNOWN", err)
		return
	}
}

func httpVerifyContactApi(api *Api, w http.ResponseWriter, r *http.Request) {
	metrics.RecordHttpRequest(r.Method, "httpVerifyContactApi")
	t := metrics.StartRequestTimer(r.Method, "httpVerifyContactApi")
	defer t.ObserveDuration()

	errs := newErrorResponder("httpVerifyContactApi", w, r)

	if r.Method != http.MethodPost {
		errs.methodNotAllowed()
		return
	}

	body := struct {
		Name     string `json:"name"`
		SafeWord string `json:"safe_word"`
	}{}
	if err := parseRequestBody(&body, w, r); err != nil {
		errs.badBody(err)
		return
	}
	if body.Name == "" || body.SafeWord == "" {
		errs.text(http.StatusBadRequest, "TG_MISSING_FIELDS", missingFieldsMessage)
		return
	}

	match, err := api.book.Verify(r.Context(), body.Name, body.SafeWord)
	if err != nil {
		errs.storage(err)
		return
	}

	res := struct {
		Match   bool   `json:"match"`
		Message string `json:"message"`
	}{
		Match:   match,
		Message: verifyNoMatchMessage,
	}
	if match {
		res.Message = verifyMatchMessage
	}
	err = respondJson("httpVerifyContactApi", r, w, res)
	if err != nil {
		errs.err(http.StatusInternalServerError, "TG_UNKNOWN", err)
		return
	}
}
