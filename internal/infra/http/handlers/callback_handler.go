package handlers

import (
	"errors"
	"net/http"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

// CallbackHandler receives per-row status reports from the workflow
// engine. It is not behind user auth: the run's callback token in the
// query string is the credential.
type CallbackHandler struct {
	Callbacks CallbackProcessor
}

func NewCallbackHandler(callbacks CallbackProcessor) *CallbackHandler {
	return &CallbackHandler{Callbacks: callbacks}
}

// Handle (POST /n8n-callback?token=...)
func (h *CallbackHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RowID  string `json:"rowId"`
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		middleware.RecordCallback("http", "malformed")
		return
	}

	err := h.Callbacks.Execute(r.Context(), usecase.CallbackInput{
		Token:  r.URL.Query().Get("token"),
		RowID:  body.RowID,
		Status: body.Status,
	})
	if err != nil {
		middleware.RecordCallback("http", callbackResult(err))
		writeError(w, r, err)
		return
	}

	middleware.RecordCallback("http", "applied")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func callbackResult(err error) string {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case usecase.CodeNotFound, usecase.CodeUnauthorized:
			return "unknown_token"
		}
		return "rejected"
	}
	return "error"
}
