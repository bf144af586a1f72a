package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type ActionHandler struct {
	Runs ActionRunner
}

func NewActionHandler(runs ActionRunner) *ActionHandler {
	return &ActionHandler{Runs: runs}
}

// RunAction (POST /lead-files/{id}/run-action)
func (h *ActionHandler) RunAction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in usecase.RunActionInput
	if !decodeJSON(w, r, &in) {
		return
	}

	out, err := h.Runs.Execute(r.Context(), uid, chi.URLParam(r, "id"), in)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			middleware.RecordRun(string(entity.RunStateDispatchFailed))
		}
		writeError(w, r, err)
		return
	}
	middleware.RecordRun(string(out.State))
	writeJSON(w, http.StatusOK, out)
}

type runResponse struct {
	*entity.ActionRun
	Counts map[entity.RunRowStatus]int `json:"counts"`
}

// GetRun (GET /lead-files/{id}/runs/{jobId})
func (h *ActionHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	run, err := h.Runs.Get(r.Context(), uid, chi.URLParam(r, "id"), chi.URLParam(r, "jobId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{ActionRun: run, Counts: run.Counts()})
}
